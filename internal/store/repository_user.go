package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
)

// userRepository is the SQLite-backed implementation of [UserRepository]. It
// handles account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account and returns the fully populated
// [UserRecord] with the server-assigned CreatedAt.
//
// Error handling:
//   - SQLite unique constraint violation → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user UserRecord) (UserRecord, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.ID, user.Email, user.PasswordHash, user.DisplayName)

	var saved UserRecord
	if err := row.Scan(&saved.ID, &saved.Email, &saved.PasswordHash, &saved.DisplayName, &saved.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return UserRecord{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// FindUserByEmail retrieves the account whose email matches, case
// insensitively (the column carries COLLATE NOCASE).
//
// Returns [ErrNoUserWasFound] when no account exists for the email.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (UserRecord, error) {
	log := logger.FromContext(ctx)

	var found UserRecord
	row := r.db.QueryRowContext(ctx, findUserByEmail, email)
	if err := row.Scan(&found.ID, &found.Email, &found.PasswordHash, &found.DisplayName, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserRecord{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: scanning error")
		return UserRecord{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// UpdatePassword replaces the credential hash of the account with the given
// email. Returns [ErrNoUserWasFound] when the email is unknown.
func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, updateUserPassword, passwordHash, email)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Msg("error: exec error")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
