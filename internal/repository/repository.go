package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"travelers/internal/models"
)

// ErrNotFound is returned (wrapped) when a lookup or keyed update matches no row.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateUserRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (*models.User, error)
	AdjustArticlesAmount(ctx context.Context, userID string, delta int) error
	AddSavedStory(ctx context.Context, userID, storyID string) (bool, error)
	RemoveSavedStory(ctx context.Context, userID, storyID string) (bool, error)
	RemoveStoryFromAllSaved(ctx context.Context, storyID string) (int64, error)
}

type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, storyID string) (*models.Story, error)
	GetViewByID(ctx context.Context, storyID string) (*models.StoryView, error)
	Exists(ctx context.Context, storyID string) (bool, error)
	List(ctx context.Context, filter StoryFilter) ([]models.StoryView, error)
	Count(ctx context.Context, filter StoryFilter) (int, error)
	ListByIDs(ctx context.Context, storyIDs []string, limit, offset int) ([]models.StoryView, error)
	ListSavedByUser(ctx context.Context, userID string) ([]models.StoryView, error)
	Update(ctx context.Context, storyID string, req UpdateStoryRequest) error
	Delete(ctx context.Context, storyID string) error
	IncrementFavoriteCount(ctx context.Context, storyID string) error
	DecrementFavoriteCount(ctx context.Context, storyID string) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, categoryID string) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByAccessToken(ctx context.Context, accessToken string) (*models.Session, error)
	GetByIDAndRefreshToken(ctx context.Context, sessionID, refreshToken string) (*models.Session, error)
	DeleteByID(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type SchemaRepository interface {
	CountTables(ctx context.Context) (int, error)
}

type Repository struct {
	User     UserRepository
	Story    StoryRepository
	Category CategoryRepository
	Session  SessionRepository
	Schema   SchemaRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Story:    NewStoryRepository(db),
		Category: NewCategoryRepository(db),
		Session:  NewSessionRepository(db),
		Schema:   NewSchemaRepository(db),
	}
}
