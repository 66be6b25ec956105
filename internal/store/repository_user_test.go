package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	return &DB{DB: raw, logger: logger.Nop()}, mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "a@example.com", "hash", "Alice").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password_hash", "display_name", "created_at"}).
			AddRow("u1", "a@example.com", "hash", "Alice", created))

	saved, err := repo.CreateUser(context.Background(), UserRecord{
		ID: "u1", Email: "a@example.com", PasswordHash: "hash", DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.ID)
	assert.Equal(t, created, saved.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(sqlite3.Error{
			Code:         sqlite3.ErrConstraint,
			ExtendedCode: sqlite3.ErrConstraintUnique,
		})

	_, err := repo.CreateUser(context.Background(), UserRecord{ID: "u1", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindUserByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, display_name, created_at")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password_hash", "display_name", "created_at"}).
			AddRow("u1", "a@example.com", "hash", "Alice", time.Now()))

	found, err := repo.FindUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
	assert.Equal(t, "hash", found.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindUserByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, display_name, created_at")).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs("newhash", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "a@example.com", "newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword_UnknownEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs("newhash", "ghost@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "ghost@example.com", "newhash")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRecord_User(t *testing.T) {
	record := UserRecord{ID: "u1", Email: "a@example.com", PasswordHash: "hash", DisplayName: "Alice"}
	user := record.User()
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Alice", user.DisplayName)
}
