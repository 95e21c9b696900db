package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"travelers/internal/apperror"
	"travelers/internal/config"
	"travelers/internal/models"
	"travelers/internal/repository"
	"travelers/internal/storage"
)

type UserList struct {
	Users []models.User
	Total int
}

// UserProfile is a public profile with one page of the user's stories.
type UserProfile struct {
	User    *models.User
	Stories []models.StoryView
	Total   int
}

type UserService interface {
	ListUsers(ctx context.Context, page, limit int) (*UserList, error)
	GetUserProfile(ctx context.Context, userID string, page, perPage int) (*UserProfile, error)
	UpdateUser(ctx context.Context, userID string, req repository.UpdateUserRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID string, file io.Reader, size int64) (string, error)
}

type userService struct {
	userRepo  repository.UserRepository
	storyRepo repository.StoryRepository
	storage   storage.Storage
	cfg       *config.Config
}

func NewUserService(userRepo repository.UserRepository, storyRepo repository.StoryRepository, storage storage.Storage, cfg *config.Config) UserService {
	return &userService{
		userRepo:  userRepo,
		storyRepo: storyRepo,
		storage:   storage,
		cfg:       cfg,
	}
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) (*UserList, error) {
	var result UserList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.userRepo.ListUsers(gctx, limit, Offset(page, limit))
		result.Users = users
		return err
	})
	g.Go(func() error {
		total, err := s.userRepo.CountUsers(gctx)
		result.Total = total
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.Internal("Failed to list users", err)
	}

	return &result, nil
}

func (s *userService) GetUserProfile(ctx context.Context, userID string, page, perPage int) (*UserProfile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to get user", err)
	}

	filter := repository.StoryFilter{OwnerID: userID, Limit: perPage, Offset: Offset(page, perPage)}
	profile := &UserProfile{User: user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stories, err := s.storyRepo.List(gctx, filter)
		profile.Stories = stories
		return err
	})
	g.Go(func() error {
		total, err := s.storyRepo.Count(gctx, filter)
		profile.Total = total
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.Internal("Failed to get user", err)
	}

	return profile, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req repository.UpdateUserRequest) (*models.User, error) {
	req.Name = trimmed(req.Name)
	req.Description = trimmed(req.Description)

	// blank fields are ignored
	if req.Name != nil && *req.Name == "" {
		req.Name = nil
	}
	if req.Description != nil && *req.Description == "" {
		req.Description = nil
	}
	if req.Name == nil && req.Description == nil {
		return nil, apperror.Validation("No data to update")
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to update user", err)
	}

	return user, nil
}

// UpdateAvatar sniffs the upload, stores it and points the user at the new URL.
func (s *userService) UpdateAvatar(ctx context.Context, userID string, file io.Reader, size int64) (string, error) {
	if size > s.cfg.MaxAvatarSize {
		return "", apperror.Validation(fmt.Sprintf("Avatar must be at most %s", humanize.Bytes(uint64(s.cfg.MaxAvatarSize))))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxAvatarSize+1))
	if err != nil {
		return "", apperror.Internal("Failed to read avatar", err)
	}
	if len(data) == 0 {
		return "", apperror.Validation("No file")
	}
	if int64(len(data)) > s.cfg.MaxAvatarSize {
		return "", apperror.Validation(fmt.Sprintf("Avatar must be at most %s", humanize.Bytes(uint64(s.cfg.MaxAvatarSize))))
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperror.Validation("Only image files are allowed")
	}

	objectName, url, err := s.storage.UploadAvatar(ctx, userID, mtype.Extension(), mtype.String(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.Internal("Failed to update avatar", err)
	}

	user, err := s.userRepo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		_ = s.storage.DeleteObject(ctx, objectName)
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.NotFound("User not found")
		}
		return "", apperror.Internal("Failed to update avatar", err)
	}

	return user.AvatarURL, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
