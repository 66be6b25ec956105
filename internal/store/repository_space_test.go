package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

func TestSpaceRepository_GetSpace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpaceRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, owner_email, owner_name, sharing_paused, created_at")).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "owner_id", "owner_email", "owner_name", "sharing_paused", "created_at"}).
			AddRow("owner-1", "owner-1", "o@example.com", "Owner", true, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id")).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).
			AddRow("owner-1").
			AddRow("member-2"))

	space, err := repo.GetSpace(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, space.SharingPaused)
	assert.Equal(t, []string{"owner-1", "member-2"}, space.MemberIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceRepository_GetSpace_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpaceRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, owner_email, owner_name, sharing_paused, created_at")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "owner_id", "owner_email", "owner_name", "sharing_paused", "created_at"}))

	_, err := repo.GetSpace(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSpaceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceRepository_SetPaused_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpaceRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE spaces")).
		WithArgs(true, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetPaused(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, ErrSpaceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceRepository_UpsertSpace_EnsuresOwnerMembership(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpaceRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO spaces")).
		WithArgs("owner-1", "owner-1", "o@example.com", "Owner", false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO space_members")).
		WithArgs("owner-1", "owner-1", "owner", "o@example.com", "Owner").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpsertSpace(context.Background(), models.Space{
		ID: "owner-1", OwnerID: "owner-1", OwnerEmail: "o@example.com", OwnerName: "Owner",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
