package service

import (
	"math"

	"travelers/internal/config"
	"travelers/internal/repository"
	"travelers/internal/storage"
)

type Service struct {
	Session  SessionService
	Auth     AuthService
	Story    StoryService
	User     UserService
	Category CategoryService
	Health   HealthService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, db Pinger) *Service {
	session := NewSessionService(rep.Session, rep.User, cfg)

	return &Service{
		Session:  session,
		Auth:     NewAuthService(rep.User, rep.Session, session),
		Story:    NewStoryService(rep.Story, rep.User, rep.Category),
		User:     NewUserService(rep.User, rep.Story, storage, cfg),
		Category: NewCategoryService(rep.Category),
		Health:   NewHealthService(rep.Schema, db),
	}
}

// Offset converts a 1-based page into a row offset, saturating instead of overflowing.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
