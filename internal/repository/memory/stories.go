package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"travelers/internal/models"
	"travelers/internal/repository"
)

type storyRepository Store

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if story.StoryID == "" {
		story.StoryID = uuid.New().String()
	}
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	r.stories[story.StoryID] = *story
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	story, ok := r.stories[storyID]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", storyID, repository.ErrNotFound)
	}
	return &story, nil
}

func (r *storyRepository) GetViewByID(ctx context.Context, storyID string) (*models.StoryView, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	story, ok := r.stories[storyID]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", storyID, repository.ErrNotFound)
	}
	view := r.view(story)
	return &view, nil
}

// view resolves category and owner; callers hold the lock.
func (r *storyRepository) view(story models.Story) models.StoryView {
	owner := r.users[story.OwnerID]
	return models.StoryView{
		StoryID:       story.StoryID,
		Img:           story.Img,
		Title:         story.Title,
		Article:       story.Article,
		Category:      r.categories[story.CategoryID],
		Owner:         models.Owner{UserID: owner.UserID, Name: owner.Name, AvatarURL: owner.AvatarURL},
		Date:          story.Date,
		FavoriteCount: story.FavoriteCount,
		CreatedAt:     story.CreatedAt,
		UpdatedAt:     story.UpdatedAt,
	}
}

func (r *storyRepository) Exists(ctx context.Context, storyID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.stories[storyID]
	return ok, nil
}

// newest returns matching stories ordered by creation time, newest first.
func (r *storyRepository) newest(match func(models.Story) bool) []models.StoryView {
	var matched []models.Story
	for _, story := range r.stories {
		if match(story) {
			matched = append(matched, story)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	out := make([]models.StoryView, 0, len(matched))
	for _, story := range matched {
		out = append(out, r.view(story))
	}
	return out
}

func matchFilter(filter repository.StoryFilter) func(models.Story) bool {
	return func(story models.Story) bool {
		return (filter.CategoryID == "" || story.CategoryID == filter.CategoryID) &&
			(filter.OwnerID == "" || story.OwnerID == filter.OwnerID)
	}
}

func (r *storyRepository) List(ctx context.Context, filter repository.StoryFilter) ([]models.StoryView, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.newest(matchFilter(filter)), filter.Limit, filter.Offset), nil
}

func (r *storyRepository) Count(ctx context.Context, filter repository.StoryFilter) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	match := matchFilter(filter)
	count := 0
	for _, story := range r.stories {
		if match(story) {
			count++
		}
	}
	return count, nil
}

func (r *storyRepository) ListByIDs(ctx context.Context, storyIDs []string, limit, offset int) ([]models.StoryView, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(storyIDs))
	for _, id := range storyIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.newest(func(story models.Story) bool { return wanted[story.StoryID] }), limit, offset), nil
}

func (r *storyRepository) ListSavedByUser(ctx context.Context, userID string) ([]models.StoryView, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.StoryView{}
	for _, id := range r.users[userID].SavedStories {
		if story, ok := r.stories[id]; ok {
			out = append(out, r.view(story))
		}
	}
	return out, nil
}

func (r *storyRepository) Update(ctx context.Context, storyID string, req repository.UpdateStoryRequest) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	story, ok := r.stories[storyID]
	if !ok {
		return fmt.Errorf("story %s: %w", storyID, repository.ErrNotFound)
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&story.Img, req.Img)
	set(&story.Title, req.Title)
	set(&story.Article, req.Article)
	set(&story.CategoryID, req.Category)
	set(&story.Date, req.Date)
	story.UpdatedAt = time.Now().UTC()

	r.stories[storyID] = story
	return nil
}

func (r *storyRepository) Delete(ctx context.Context, storyID string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stories[storyID]; !ok {
		return fmt.Errorf("story %s: %w", storyID, repository.ErrNotFound)
	}
	delete(r.stories, storyID)
	return nil
}

func (r *storyRepository) IncrementFavoriteCount(ctx context.Context, storyID string) error {
	return r.adjustFavorites(ctx, storyID, 1)
}

func (r *storyRepository) DecrementFavoriteCount(ctx context.Context, storyID string) error {
	return r.adjustFavorites(ctx, storyID, -1)
}

func (r *storyRepository) adjustFavorites(ctx context.Context, storyID string, delta int) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	story, ok := r.stories[storyID]
	if !ok || story.FavoriteCount+delta < 0 {
		return nil
	}
	story.FavoriteCount += delta
	r.stories[storyID] = story
	return nil
}
