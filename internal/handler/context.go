package handlers

import (
	"context"

	"travelers/internal/models"
)

type contextKey struct{}

var currentUserKey = contextKey{}

func WithCurrentUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUser returns the user attached by the authentication middleware.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*models.User)
	return user, ok && user != nil
}
