package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// inviteRepository is the SQLite-backed implementation of [InviteRepository].
// The filtered listing is the one genuinely dynamic query of the server, so
// it is built with squirrel instead of string surgery.
type inviteRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewInviteRepository constructs an [InviteRepository] backed by the provided
// database connection and logger.
func NewInviteRepository(db *DB, logger *logger.Logger) InviteRepository {
	logger.Debug().Msg("creating invite repository")
	return &inviteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *inviteRepository) Create(ctx context.Context, invite models.Invite) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, createInvite,
		invite.ID, invite.SpaceID, invite.InviterID, invite.InviteeEmail, invite.Status); err != nil {
		log.Err(err).Str("func", "*inviteRepository.Create").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// Get loads one invite. Returns [ErrInviteNotFound] when no row exists.
func (r *inviteRepository) Get(ctx context.Context, inviteID string) (models.Invite, error) {
	log := logger.FromContext(ctx)

	var invite models.Invite
	row := r.db.QueryRowContext(ctx, getInvite, inviteID)
	if err := row.Scan(&invite.ID, &invite.SpaceID, &invite.InviterID, &invite.InviteeEmail, &invite.Status, &invite.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invite{}, ErrInviteNotFound
		}
		log.Err(err).Str("func", "*inviteRepository.Get").Msg("error: scanning error")
		return models.Invite{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return invite, nil
}

// Find lists invites matching the filter's non-zero fields, newest first.
func (r *inviteRepository) Find(ctx context.Context, filter InviteFilter) ([]models.Invite, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("id", "space_id", "inviter_id", "invitee_email", "status", "created_at").
		From("invites").
		OrderBy("created_at DESC")
	if filter.SpaceID != "" {
		builder = builder.Where(sq.Eq{"space_id": filter.SpaceID})
	}
	if filter.Email != "" {
		builder = builder.Where(sq.Eq{"invitee_email": filter.Email})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*inviteRepository.Find").Msg("error: query error")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	invites := make([]models.Invite, 0)
	for rows.Next() {
		var invite models.Invite
		if err = rows.Scan(&invite.ID, &invite.SpaceID, &invite.InviterID, &invite.InviteeEmail, &invite.Status, &invite.CreatedAt); err != nil {
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}
		invites = append(invites, invite)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return invites, nil
}

// SetStatus updates one invite's status. Returns [ErrInviteNotFound] when the
// invite does not exist.
func (r *inviteRepository) SetStatus(ctx context.Context, inviteID string, status models.InviteStatus) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, setInviteStatus, status, inviteID)
	if err != nil {
		log.Err(err).Str("func", "*inviteRepository.SetStatus").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// Delete removes one invite outright. Deleting an absent invite is not an
// error.
func (r *inviteRepository) Delete(ctx context.Context, inviteID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteInvite, inviteID); err != nil {
		log.Err(err).Str("func", "*inviteRepository.Delete").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
