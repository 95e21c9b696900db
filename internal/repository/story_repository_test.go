package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelers/internal/models"
)

var storyViewColumns = []string{
	"story_id", "img", "title", "article", "date", "favorite_count", "created_at", "updated_at",
	"category_id", "category_name", "owner_id", "owner_name", "owner_avatar_url",
}

func storyViewRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows(storyViewColumns)
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "https://img/"+id, "Title "+id, "Body", "2025-01-01", 1, now, now,
			"c1", "Європа", "u1", "Anna", "https://a/anna.png")
	}
	return rows
}

func TestStoryRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)

	story := &models.Story{
		Img: "https://img/1", Title: "Carpathians", Article: "Text",
		CategoryID: "c1", OwnerID: "u1", Date: "2025-05-01",
	}

	mock.ExpectExec(q("INSERT INTO stories")).
		WithArgs(sqlmock.AnyArg(), "https://img/1", "Carpathians", "Text", "c1", "u1", "2025-05-01", 0,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), story))
	assert.NotEmpty(t, story.StoryID)
	assert.False(t, story.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_GetViewByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	t.Run("resolves category and owner", func(t *testing.T) {
		mock.ExpectQuery(q("WHERE s.story_id = $1")).WithArgs("s1").WillReturnRows(storyViewRows("s1"))

		view, err := repo.GetViewByID(ctx, "s1")

		require.NoError(t, err)
		assert.Equal(t, "s1", view.StoryID)
		assert.Equal(t, models.Category{CategoryID: "c1", Name: "Європа"}, view.Category)
		assert.Equal(t, models.Owner{UserID: "u1", Name: "Anna", AvatarURL: "https://a/anna.png"}, view.Owner)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(q("WHERE s.story_id = $1")).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		view, err := repo.GetViewByID(ctx, "missing")

		assert.Nil(t, view)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoryRepository_Exists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)

	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM stories WHERE story_id = $1)")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "s1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_ListAndCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	filter := StoryFilter{CategoryID: "c1", Limit: 9, Offset: 9}

	mock.ExpectQuery(q("ORDER BY s.created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs("c1", "", 9, 9).
		WillReturnRows(storyViewRows("s1", "s2"))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM stories s")).
		WithArgs("c1", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	stories, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, stories, 2)

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 11, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_ListByIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	t.Run("empty set skips the query", func(t *testing.T) {
		stories, err := repo.ListByIDs(ctx, nil, 9, 0)

		require.NoError(t, err)
		assert.Empty(t, stories)
	})

	t.Run("filters by ids", func(t *testing.T) {
		mock.ExpectQuery(q("WHERE s.story_id = ANY($1::uuid[])")).
			WithArgs("{\"s1\",\"s2\"}", 9, 0).
			WillReturnRows(storyViewRows("s2", "s1"))

		stories, err := repo.ListByIDs(ctx, []string{"s1", "s2"}, 9, 0)

		require.NoError(t, err)
		assert.Len(t, stories, 2)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_ListSavedByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)

	mock.ExpectQuery(q("unnest(su.saved_stories) WITH ORDINALITY") + ".*" + q("ORDER BY saved.position")).
		WithArgs("u1").
		WillReturnRows(storyViewRows("s2", "s1"))

	stories, err := repo.ListSavedByUser(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "s2", stories[0].StoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	title := "New title"

	mock.ExpectExec(q("title = COALESCE($3, title)")).
		WithArgs("s1", nil, title, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("title = COALESCE($3, title)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(ctx, "s1", UpdateStoryRequest{Title: &title}))
	assert.ErrorIs(t, repo.Update(ctx, "missing", UpdateStoryRequest{Title: &title}), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	mock.ExpectExec(q("DELETE FROM stories WHERE story_id = $1")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM stories WHERE story_id = $1")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(ctx, "s1"))
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_FavoriteCounter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	mock.ExpectExec(q("SET favorite_count = favorite_count + 1 WHERE story_id = $1")).
		WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("SET favorite_count = favorite_count - 1 WHERE story_id = $1 AND favorite_count > 0")).
		WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.IncrementFavoriteCount(ctx, "s1"))
	require.NoError(t, repo.DecrementFavoriteCount(ctx, "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStoryRequest_IsEmpty(t *testing.T) {
	title := "x"

	assert.True(t, UpdateStoryRequest{}.IsEmpty())
	assert.False(t, UpdateStoryRequest{Title: &title}.IsEmpty())
}
