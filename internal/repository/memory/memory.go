// Package memory keeps every repository in process memory behind one lock.
// Conditional writes are evaluated under the lock, matching the single
// statement semantics of the Postgres repositories.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"travelers/internal/models"
	"travelers/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	stories    map[string]models.Story
	categories map[string]models.Category
	sessions   map[string]models.Session
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]models.User),
		stories:    make(map[string]models.Story),
		categories: make(map[string]models.Category),
		sessions:   make(map[string]models.Session),
	}
}

// NewRepository exposes the store through the repository interfaces.
func NewRepository(s *Store) *repository.Repository {
	return &repository.Repository{
		User:     (*userRepository)(s),
		Story:    (*storyRepository)(s),
		Category: (*categoryRepository)(s),
		Session:  (*sessionRepository)(s),
		Schema:   schemaRepository{},
	}
}

// AddCategory seeds a category and returns its id.
func (s *Store) AddCategory(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.categories[id] = models.Category{CategoryID: id, Name: name}
	return id
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func cloneUser(u models.User) *models.User {
	u.SavedStories = append(u.SavedStories[:0:0], u.SavedStories...)
	return &u
}

type userRepository Store

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}

	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.AvatarURL == "" {
		user.AvatarURL = models.DefaultAvatarURL
	}
	if user.SavedStories == nil {
		user.SavedStories = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.PasswordHash = string(hash)

	r.users[user.UserID] = *cloneUser(*user)
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, repository.ErrNotFound)
	}
	return cloneUser(user), nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, repository.ErrNotFound)
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, repository.ErrInvalidPassword
	}
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	return page(users, limit, offset), nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, req repository.UpdateUserRequest) (*models.User, error) {
	return r.update(ctx, userID, func(u *models.User) {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Description != nil {
			u.Description = *req.Description
		}
	})
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*models.User, error) {
	return r.update(ctx, userID, func(u *models.User) {
		u.AvatarURL = avatarURL
	})
}

func (r *userRepository) AdjustArticlesAmount(ctx context.Context, userID string, delta int) error {
	_, err := r.update(ctx, userID, func(u *models.User) {
		u.ArticlesAmount += delta
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (r *userRepository) update(ctx context.Context, userID string, apply func(*models.User)) (*models.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, repository.ErrNotFound)
	}
	apply(&user)
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user

	return cloneUser(user), nil
}

func (r *userRepository) AddSavedStory(ctx context.Context, userID, storyID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok || user.HasSaved(storyID) {
		return false, nil
	}
	user.SavedStories = append(user.SavedStories, storyID)
	r.users[userID] = user
	return true, nil
}

func (r *userRepository) RemoveSavedStory(ctx context.Context, userID, storyID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok || !user.HasSaved(storyID) {
		return false, nil
	}
	user.SavedStories = without(user.SavedStories, storyID)
	r.users[userID] = user
	return true, nil
}

func (r *userRepository) RemoveStoryFromAllSaved(ctx context.Context, storyID string) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for id, user := range r.users {
		if user.HasSaved(storyID) {
			user.SavedStories = without(user.SavedStories, storyID)
			r.users[id] = user
			affected++
		}
	}
	return affected, nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
