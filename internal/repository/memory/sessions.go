package memory

import (
	"context"
	"fmt"
	"sort"

	"travelers/internal/models"
	"travelers/internal/repository"
)

type categoryRepository Store

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.categories))
	for _, category := range r.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *categoryRepository) Exists(ctx context.Context, categoryID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.categories[categoryID]
	return ok, nil
}

type sessionRepository Store

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.SessionID] = *session
	return nil
}

func (r *sessionRepository) GetByAccessToken(ctx context.Context, accessToken string) (*models.Session, error) {
	return r.find(ctx, func(s models.Session) bool { return s.AccessToken == accessToken })
}

func (r *sessionRepository) GetByIDAndRefreshToken(ctx context.Context, sessionID, refreshToken string) (*models.Session, error) {
	return r.find(ctx, func(s models.Session) bool {
		return s.SessionID == sessionID && s.RefreshToken == refreshToken
	})
}

func (r *sessionRepository) find(ctx context.Context, match func(models.Session) bool) (*models.Session, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, session := range r.sessions {
		if match(session) {
			return &session, nil
		}
	}
	return nil, fmt.Errorf("session: %w", repository.ErrNotFound)
}

func (r *sessionRepository) DeleteByID(ctx context.Context, sessionID string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

type schemaRepository struct{}

func (schemaRepository) CountTables(context.Context) (int, error) {
	return 4, nil
}
