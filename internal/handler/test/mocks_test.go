package test

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"

	"travelers/internal/models"
	"travelers/internal/repository"
	"travelers/internal/service"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, userID string) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) SetSessionCookies(w http.ResponseWriter, session *models.Session) {
	m.Called(w, session)
	http.SetCookie(w, &http.Cookie{Name: service.AccessTokenCookie, Value: session.AccessToken})
}

func (m *MockSessionService) ClearSessionCookies(w http.ResponseWriter) {
	m.Called(w)
}

func (m *MockSessionService) ResolveUser(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, *models.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*models.Session), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*models.Session), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID, accessToken string) error {
	args := m.Called(ctx, sessionID, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) RefreshSession(ctx context.Context, sessionID, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, sessionID, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

type MockStoryService struct {
	mock.Mock
}

func (m *MockStoryService) ListStories(ctx context.Context, categoryID string, page, limit int) (*service.StoryList, error) {
	args := m.Called(ctx, categoryID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoryList), args.Error(1)
}

func (m *MockStoryService) GetStory(ctx context.Context, storyID string) (*models.StoryView, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoryView), args.Error(1)
}

func (m *MockStoryService) CreateStory(ctx context.Context, ownerID string, req repository.CreateStoryRequest) (*models.StoryView, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoryView), args.Error(1)
}

func (m *MockStoryService) UpdateStory(ctx context.Context, userID, storyID string, req repository.UpdateStoryRequest) (*models.StoryView, error) {
	args := m.Called(ctx, userID, storyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoryView), args.Error(1)
}

func (m *MockStoryService) DeleteStory(ctx context.Context, userID, storyID string) error {
	args := m.Called(ctx, userID, storyID)
	return args.Error(0)
}

func (m *MockStoryService) SaveStory(ctx context.Context, userID, storyID string) ([]models.StoryView, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoryView), args.Error(1)
}

func (m *MockStoryService) UnsaveStory(ctx context.Context, userID, storyID string) ([]models.StoryView, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoryView), args.Error(1)
}

func (m *MockStoryService) GetSavedStories(ctx context.Context, user *models.User, page, limit int) (*service.StoryList, error) {
	args := m.Called(ctx, user, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoryList), args.Error(1)
}

func (m *MockStoryService) GetMyStories(ctx context.Context, userID string, page, limit int) (*service.StoryList, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoryList), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, page, limit int) (*service.UserList, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserList), args.Error(1)
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string, page, perPage int) (*service.UserProfile, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req repository.UpdateUserRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateAvatar(ctx context.Context, userID string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, userID, file, size)
	return args.String(0), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) (*service.Health, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Health), args.Error(1)
}
