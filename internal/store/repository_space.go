package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// spaceRepository is the SQLite-backed implementation of [SpaceRepository].
// A space row carries the owner's identity and the paused flag; the member
// set lives in the space_members table and is folded into the returned
// [models.Space] documents.
type spaceRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSpaceRepository constructs a [SpaceRepository] backed by the provided
// database connection and logger.
func NewSpaceRepository(db *DB, logger *logger.Logger) SpaceRepository {
	logger.Debug().Msg("creating space repository")
	return &spaceRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertSpace creates the space row, or refreshes the owner's contact fields
// if it already exists. The paused flag and the member set of an existing
// space are deliberately left untouched; the owner is ensured as a member.
func (r *spaceRepository) UpsertSpace(ctx context.Context, space models.Space) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, upsertSpace,
		space.ID, space.OwnerID, space.OwnerEmail, space.OwnerName, space.SharingPaused); err != nil {
		log.Err(err).Str("func", "*spaceRepository.UpsertSpace").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if _, err = tx.ExecContext(ctx, addSpaceMember,
		space.ID, space.OwnerID, models.RoleOwner, space.OwnerEmail, space.OwnerName); err != nil {
		log.Err(err).Str("func", "*spaceRepository.UpsertSpace").Msg("error: ensure owner membership")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return tx.Commit()
}

// GetSpace loads one space document with its member id set. Returns
// [ErrSpaceNotFound] when no row exists.
func (r *spaceRepository) GetSpace(ctx context.Context, spaceID string) (models.Space, error) {
	log := logger.FromContext(ctx)

	space, err := r.scanSpace(r.db.QueryRowContext(ctx, getSpace, spaceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Space{}, ErrSpaceNotFound
		}
		log.Err(err).Str("func", "*spaceRepository.GetSpace").Msg("error: scanning error")
		return models.Space{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if space.MemberIDs, err = r.memberIDs(ctx, spaceID); err != nil {
		return models.Space{}, err
	}

	return space, nil
}

// SpacesForUser lists every space the user is a member of, each with its full
// member id set.
func (r *spaceRepository) SpacesForUser(ctx context.Context, userID string) ([]models.Space, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, spacesForUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*spaceRepository.SpacesForUser").Msg("error: query error")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	spaces := make([]models.Space, 0)
	for rows.Next() {
		space, err := r.scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}
		spaces = append(spaces, space)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	for i := range spaces {
		if spaces[i].MemberIDs, err = r.memberIDs(ctx, spaces[i].ID); err != nil {
			return nil, err
		}
	}

	return spaces, nil
}

// SetPaused flips the space's paused flag. Returns [ErrSpaceNotFound] when
// the space does not exist.
func (r *spaceRepository) SetPaused(ctx context.Context, spaceID string, paused bool) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, setSpacePaused, paused, spaceID)
	if err != nil {
		log.Err(err).Str("func", "*spaceRepository.SetPaused").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrSpaceNotFound
	}

	return nil
}

// AddMember upserts one membership row.
func (r *spaceRepository) AddMember(ctx context.Context, member models.Member) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, addSpaceMember,
		member.SpaceID, member.UserID, member.Role, member.Email, member.DisplayName); err != nil {
		log.Err(err).Str("func", "*spaceRepository.AddMember").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// RemoveMember deletes one membership row. Removing an absent member is not
// an error.
func (r *spaceRepository) RemoveMember(ctx context.Context, spaceID, userID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, removeSpaceMember, spaceID, userID); err != nil {
		log.Err(err).Str("func", "*spaceRepository.RemoveMember").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// Members lists the full membership rows of a space in join order.
func (r *spaceRepository) Members(ctx context.Context, spaceID string) ([]models.Member, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, spaceMembers, spaceID)
	if err != nil {
		log.Err(err).Str("func", "*spaceRepository.Members").Msg("error: query error")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var m models.Member
		if err = rows.Scan(&m.SpaceID, &m.UserID, &m.Role, &m.Email, &m.DisplayName, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return members, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *spaceRepository) scanSpace(row rowScanner) (models.Space, error) {
	var space models.Space
	err := row.Scan(&space.ID, &space.OwnerID, &space.OwnerEmail, &space.OwnerName, &space.SharingPaused, &space.CreatedAt)
	return space, err
}

func (r *spaceRepository) memberIDs(ctx context.Context, spaceID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, spaceMemberIDs, spaceID)
	if err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
