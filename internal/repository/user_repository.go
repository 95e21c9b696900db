package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"travelers/internal/models"
)

// ErrEmailTaken is returned when the unique email constraint rejects an insert.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidPassword is returned by VerifyPassword on a hash mismatch.
var ErrInvalidPassword = errors.New("invalid password")

const userColumns = `user_id, name, email, password_hash, avatar_url, description,
	articles_amount, saved_stories, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest holds optional profile fields; nil leaves a column unchanged.
type UpdateUserRequest struct {
	Name        *string `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.AvatarURL == "" {
		user.AvatarURL = models.DefaultAvatarURL
	}
	if user.SavedStories == nil {
		user.SavedStories = pq.StringArray{}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.PasswordHash = string(hashedPassword)

	query := `
		INSERT INTO users (user_id, name, email, password_hash, avatar_url, description,
			articles_amount, saved_stories, created_at, updated_at)
		VALUES (:user_id, :name, :email, :password_hash, :avatar_url, :description,
			:articles_amount, :saved_stories, :created_at, :updated_at)
	`

	_, err = r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// checking that the password hash is the same
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, req UpdateUserRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns

	var user models.User
	err := r.db.GetContext(ctx, &user, query, userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*models.User, error) {
	query := `
		UPDATE users SET avatar_url = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns

	var user models.User
	err := r.db.GetContext(ctx, &user, query, userID, avatarURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	return &user, nil
}

func (r *userRepository) AdjustArticlesAmount(ctx context.Context, userID string, delta int) error {
	query := `UPDATE users SET articles_amount = articles_amount + $2 WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, delta); err != nil {
		return fmt.Errorf("adjust articles amount: %w", err)
	}
	return nil
}

// AddSavedStory appends storyID only when it is not yet in the set. The membership
// check and the append are one statement, so at most one concurrent caller matches.
func (r *userRepository) AddSavedStory(ctx context.Context, userID, storyID string) (bool, error) {
	query := `
		UPDATE users
		SET saved_stories = array_append(saved_stories, $2::uuid), updated_at = NOW()
		WHERE user_id = $1 AND NOT ($2::uuid = ANY(saved_stories))
	`

	return r.execConditional(ctx, "add saved story", query, userID, storyID)
}

// RemoveSavedStory removes storyID only when it is in the set.
func (r *userRepository) RemoveSavedStory(ctx context.Context, userID, storyID string) (bool, error) {
	query := `
		UPDATE users
		SET saved_stories = array_remove(saved_stories, $2::uuid), updated_at = NOW()
		WHERE user_id = $1 AND $2::uuid = ANY(saved_stories)
	`

	return r.execConditional(ctx, "remove saved story", query, userID, storyID)
}

func (r *userRepository) RemoveStoryFromAllSaved(ctx context.Context, storyID string) (int64, error) {
	query := `
		UPDATE users
		SET saved_stories = array_remove(saved_stories, $1::uuid)
		WHERE $1::uuid = ANY(saved_stories)
	`

	result, err := r.db.ExecContext(ctx, query, storyID)
	if err != nil {
		return 0, fmt.Errorf("remove story from saved sets: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check updated rows: %w", err)
	}

	return rowsAffected, nil
}

func (r *userRepository) execConditional(ctx context.Context, op, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: check updated rows: %w", op, err)
	}

	return rowsAffected > 0, nil
}
