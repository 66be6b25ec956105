package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
)

// Document collection tables. Constructors only accept these names, so the
// query templates never see arbitrary input.
const (
	ItemsTable   = "items"
	RecipesTable = "recipes"
)

// docRepository stores one opaque JSON document collection keyed by
// (space id, document id). Items and recipes share this implementation.
type docRepository struct {
	logger *logger.Logger
	db     *DB

	upsertQuery    string
	deleteQuery    string
	deleteAllQuery string
	listQuery      string
}

// NewDocRepository constructs a [DocRepository] over one of the fixed
// collection tables ([ItemsTable] or [RecipesTable]).
func NewDocRepository(db *DB, table string, logger *logger.Logger) (DocRepository, error) {
	if table != ItemsTable && table != RecipesTable {
		return nil, fmt.Errorf("%w: unknown collection table %q", ErrBuildingSQLQuery, table)
	}

	logger.Debug().Str("table", table).Msg("creating document repository")
	return &docRepository{
		db:             db,
		logger:         logger,
		upsertQuery:    fmt.Sprintf(upsertDocTpl, table),
		deleteQuery:    fmt.Sprintf(deleteDocTpl, table),
		deleteAllQuery: fmt.Sprintf(deleteAllDocsTpl, table),
		listQuery:      fmt.Sprintf(listDocsTpl, table),
	}, nil
}

func (r *docRepository) Upsert(ctx context.Context, spaceID, docID string, doc json.RawMessage) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, r.upsertQuery, spaceID, docID, string(doc)); err != nil {
		log.Err(err).Str("func", "*docRepository.Upsert").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// UpsertBatch writes all docs in one transaction so a watch broadcast never
// observes a half-applied batch.
func (r *docRepository) UpsertBatch(ctx context.Context, spaceID string, docs map[string]json.RawMessage) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, r.upsertQuery)
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	defer stmt.Close()

	for docID, doc := range docs {
		if _, err = stmt.ExecContext(ctx, spaceID, docID, string(doc)); err != nil {
			log.Err(err).Str("func", "*docRepository.UpsertBatch").Str("doc", docID).Msg("error: exec error")
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return tx.Commit()
}

// Delete removes one document. Deleting an absent document is not an error.
func (r *docRepository) Delete(ctx context.Context, spaceID, docID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, r.deleteQuery, spaceID, docID); err != nil {
		log.Err(err).Str("func", "*docRepository.Delete").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *docRepository) DeleteAll(ctx context.Context, spaceID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, r.deleteAllQuery, spaceID); err != nil {
		log.Err(err).Str("func", "*docRepository.DeleteAll").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// List returns every document of the space in stable id order.
func (r *docRepository) List(ctx context.Context, spaceID string) ([]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, r.listQuery, spaceID)
	if err != nil {
		log.Err(err).Str("func", "*docRepository.List").Msg("error: query error")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var doc string
		if err = rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return docs, nil
}
