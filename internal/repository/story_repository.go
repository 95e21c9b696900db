package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"travelers/internal/models"
)

type storyRepository struct {
	db *sqlx.DB
}

type CreateStoryRequest struct {
	Img      string `json:"img"`
	Title    string `json:"title"`
	Article  string `json:"article"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// UpdateStoryRequest holds optional story fields; nil leaves a column unchanged.
type UpdateStoryRequest struct {
	Img      *string `json:"img"`
	Title    *string `json:"title"`
	Article  *string `json:"article"`
	Category *string `json:"category"`
	Date     *string `json:"date"`
}

func (r UpdateStoryRequest) IsEmpty() bool {
	return r.Img == nil && r.Title == nil && r.Article == nil && r.Category == nil && r.Date == nil
}

// StoryFilter narrows listings; empty fields are ignored.
type StoryFilter struct {
	CategoryID string
	OwnerID    string
	Limit      int
	Offset     int
}

// storyRow is the flat shape of a story joined with its category and owner.
type storyRow struct {
	StoryID        string    `db:"story_id"`
	Img            string    `db:"img"`
	Title          string    `db:"title"`
	Article        string    `db:"article"`
	Date           string    `db:"date"`
	FavoriteCount  int       `db:"favorite_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	CategoryID     string    `db:"category_id"`
	CategoryName   string    `db:"category_name"`
	OwnerID        string    `db:"owner_id"`
	OwnerName      string    `db:"owner_name"`
	OwnerAvatarURL string    `db:"owner_avatar_url"`
}

func (row storyRow) view() models.StoryView {
	return models.StoryView{
		StoryID:       row.StoryID,
		Img:           row.Img,
		Title:         row.Title,
		Article:       row.Article,
		Category:      models.Category{CategoryID: row.CategoryID, Name: row.CategoryName},
		Owner:         models.Owner{UserID: row.OwnerID, Name: row.OwnerName, AvatarURL: row.OwnerAvatarURL},
		Date:          row.Date,
		FavoriteCount: row.FavoriteCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func views(rows []storyRow) []models.StoryView {
	out := make([]models.StoryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.view())
	}
	return out
}

const storyViewSelect = `
	SELECT s.story_id, s.img, s.title, s.article, s.date, s.favorite_count,
		s.created_at, s.updated_at,
		c.category_id, c.name AS category_name,
		u.user_id AS owner_id, u.name AS owner_name, u.avatar_url AS owner_avatar_url
	FROM stories s
	JOIN categories c ON c.category_id = s.category_id
	JOIN users u ON u.user_id = s.owner_id
`

// storyFilterWhere matches every story when a parameter is the empty string.
const storyFilterWhere = `
	WHERE ($1 = '' OR s.category_id::text = $1)
	AND ($2 = '' OR s.owner_id::text = $2)
`

func NewStoryRepository(db *sqlx.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories
		(story_id, img, title, article, category_id, owner_id, date, favorite_count, created_at, updated_at)
		VALUES
		(:story_id, :img, :title, :article, :category_id, :owner_id, :date, :favorite_count, :created_at, :updated_at)
	`

	if story.StoryID == "" {
		story.StoryID = uuid.New().String()
	}

	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, story); err != nil {
		return fmt.Errorf("create story: %w", err)
	}

	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	query := `
		SELECT story_id, img, title, article, category_id, owner_id, date, favorite_count, created_at, updated_at
		FROM stories WHERE story_id = $1
	`

	var story models.Story
	err := r.db.GetContext(ctx, &story, query, storyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("story %s: %w", storyID, ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}

	return &story, nil
}

func (r *storyRepository) GetViewByID(ctx context.Context, storyID string) (*models.StoryView, error) {
	query := storyViewSelect + ` WHERE s.story_id = $1`

	var row storyRow
	err := r.db.GetContext(ctx, &row, query, storyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("story %s: %w", storyID, ErrNotFound)
		}
		return nil, fmt.Errorf("get story view: %w", err)
	}

	view := row.view()
	return &view, nil
}

func (r *storyRepository) Exists(ctx context.Context, storyID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM stories WHERE story_id = $1)`, storyID)
	if err != nil {
		return false, fmt.Errorf("check story exists: %w", err)
	}
	return exists, nil
}

func (r *storyRepository) List(ctx context.Context, filter StoryFilter) ([]models.StoryView, error) {
	query := storyViewSelect + storyFilterWhere + ` ORDER BY s.created_at DESC LIMIT $3 OFFSET $4`

	var rows []storyRow
	err := r.db.SelectContext(ctx, &rows, query, filter.CategoryID, filter.OwnerID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	return views(rows), nil
}

func (r *storyRepository) Count(ctx context.Context, filter StoryFilter) (int, error) {
	query := `SELECT COUNT(*) FROM stories s` + storyFilterWhere

	var count int
	if err := r.db.GetContext(ctx, &count, query, filter.CategoryID, filter.OwnerID); err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}
	return count, nil
}

func (r *storyRepository) ListByIDs(ctx context.Context, storyIDs []string, limit, offset int) ([]models.StoryView, error) {
	if len(storyIDs) == 0 {
		return []models.StoryView{}, nil
	}

	query := storyViewSelect + ` WHERE s.story_id = ANY($1::uuid[]) ORDER BY s.created_at DESC LIMIT $2 OFFSET $3`

	var rows []storyRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(storyIDs), limit, offset); err != nil {
		return nil, fmt.Errorf("list stories by ids: %w", err)
	}

	return views(rows), nil
}

// ListSavedByUser resolves the user's saved set in insertion order.
func (r *storyRepository) ListSavedByUser(ctx context.Context, userID string) ([]models.StoryView, error) {
	query := `
	SELECT s.story_id, s.img, s.title, s.article, s.date, s.favorite_count,
		s.created_at, s.updated_at,
		c.category_id, c.name AS category_name,
		u.user_id AS owner_id, u.name AS owner_name, u.avatar_url AS owner_avatar_url
	FROM users su
	CROSS JOIN LATERAL unnest(su.saved_stories) WITH ORDINALITY AS saved(story_id, position)
	JOIN stories s ON s.story_id = saved.story_id
	JOIN categories c ON c.category_id = s.category_id
	JOIN users u ON u.user_id = s.owner_id
	WHERE su.user_id = $1
	ORDER BY saved.position
	`

	var rows []storyRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list saved stories: %w", err)
	}

	return views(rows), nil
}

func (r *storyRepository) Update(ctx context.Context, storyID string, req UpdateStoryRequest) error {
	query := `
		UPDATE stories SET
			img = COALESCE($2, img),
			title = COALESCE($3, title),
			article = COALESCE($4, article),
			category_id = COALESCE($5::uuid, category_id),
			date = COALESCE($6, date),
			updated_at = NOW()
		WHERE story_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, storyID, req.Img, req.Title, req.Article, req.Category, req.Date)
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("story %s: %w", storyID, ErrNotFound)
	}

	return nil
}

func (r *storyRepository) Delete(ctx context.Context, storyID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE story_id = $1`, storyID)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("story %s: %w", storyID, ErrNotFound)
	}

	return nil
}

func (r *storyRepository) IncrementFavoriteCount(ctx context.Context, storyID string) error {
	query := `UPDATE stories SET favorite_count = favorite_count + 1 WHERE story_id = $1`

	if _, err := r.db.ExecContext(ctx, query, storyID); err != nil {
		return fmt.Errorf("increment favorite count: %w", err)
	}
	return nil
}

// DecrementFavoriteCount never takes the counter below zero.
func (r *storyRepository) DecrementFavoriteCount(ctx context.Context, storyID string) error {
	query := `UPDATE stories SET favorite_count = favorite_count - 1 WHERE story_id = $1 AND favorite_count > 0`

	if _, err := r.db.ExecContext(ctx, query, storyID); err != nil {
		return fmt.Errorf("decrement favorite count: %w", err)
	}
	return nil
}
