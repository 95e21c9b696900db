package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"travelers/internal/models"
)

const sessionColumns = `session_id, user_id, access_token, refresh_token,
	access_token_valid_until, refresh_token_valid_until, created_at`

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (session_id, user_id, access_token, refresh_token,
			access_token_valid_until, refresh_token_valid_until, created_at)
		VALUES (:session_id, :user_id, :access_token, :refresh_token,
			:access_token_valid_until, :refresh_token_valid_until, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByAccessToken(ctx context.Context, accessToken string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE access_token = $1`

	return r.get(ctx, query, accessToken)
}

func (r *sessionRepository) GetByIDAndRefreshToken(ctx context.Context, sessionID, refreshToken string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE session_id = $1 AND refresh_token = $2`

	return r.get(ctx, query, sessionID, refreshToken)
}

func (r *sessionRepository) get(ctx context.Context, query string, args ...any) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByID(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
