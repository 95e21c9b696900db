package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelers/internal/models"
)

func TestSessionRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionRepository(db)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	session := &models.Session{
		SessionID:              "sid1",
		UserID:                 "u1",
		AccessToken:            "access",
		RefreshToken:           "refresh",
		AccessTokenValidUntil:  now.Add(15 * time.Minute),
		RefreshTokenValidUntil: now.Add(24 * time.Hour),
		CreatedAt:              now,
	}

	mock.ExpectExec(q("INSERT INTO sessions")).
		WithArgs("sid1", "u1", "access", "refresh", now.Add(15*time.Minute), now.Add(24*time.Hour), now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByAccessToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	columns := []string{"session_id", "user_id", "access_token", "refresh_token",
		"access_token_valid_until", "refresh_token_valid_until", "created_at"}

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(q("FROM sessions WHERE access_token = $1")).
			WithArgs("access").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("sid1", "u1", "access", "refresh", now, now, now))

		session, err := repo.GetByAccessToken(ctx, "access")

		require.NoError(t, err)
		assert.Equal(t, "sid1", session.SessionID)
		assert.Equal(t, "u1", session.UserID)
	})

	t.Run("unknown token", func(t *testing.T) {
		mock.ExpectQuery(q("FROM sessions WHERE access_token = $1")).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		session, err := repo.GetByAccessToken(ctx, "nope")

		assert.Nil(t, session)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("by id and refresh token", func(t *testing.T) {
		mock.ExpectQuery(q("FROM sessions WHERE session_id = $1 AND refresh_token = $2")).
			WithArgs("sid1", "refresh").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("sid1", "u1", "access", "refresh", now, now, now))

		session, err := repo.GetByIDAndRefreshToken(ctx, "sid1", "refresh")

		require.NoError(t, err)
		assert.Equal(t, "refresh", session.RefreshToken)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	mock.ExpectExec(q("DELETE FROM sessions WHERE session_id = $1")).WithArgs("sid1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM sessions WHERE user_id = $1")).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByID(ctx, "sid1"))
	require.NoError(t, repo.DeleteByUserID(ctx, "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
