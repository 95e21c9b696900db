package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"travelers/internal/config"
	"travelers/internal/service"
)

type Handlers struct {
	SessionService  service.SessionService
	AuthService     service.AuthService
	StoryService    service.StoryService
	UserService     service.UserService
	CategoryService service.CategoryService
	HealthService   service.HealthService
	Cfg             *config.Config
	Validate        *validator.Validate
	Log             *slog.Logger
}

func NewHandlers(service *service.Service, config *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		SessionService:  service.Session,
		AuthService:     service.Auth,
		StoryService:    service.Story,
		UserService:     service.User,
		CategoryService: service.Category,
		HealthService:   service.Health,
		Cfg:             config,
		Validate:        NewValidator(),
		Log:             logger,
	}
}
