package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"travelers/internal/apperror"
	"travelers/internal/models"
	"travelers/internal/repository"
)

// StoryList is one page of stories plus the size of the whole result set.
type StoryList struct {
	Stories []models.StoryView
	Total   int
}

type StoryService interface {
	ListStories(ctx context.Context, categoryID string, page, limit int) (*StoryList, error)
	GetStory(ctx context.Context, storyID string) (*models.StoryView, error)
	CreateStory(ctx context.Context, ownerID string, req repository.CreateStoryRequest) (*models.StoryView, error)
	UpdateStory(ctx context.Context, userID, storyID string, req repository.UpdateStoryRequest) (*models.StoryView, error)
	DeleteStory(ctx context.Context, userID, storyID string) error
	SaveStory(ctx context.Context, userID, storyID string) ([]models.StoryView, error)
	UnsaveStory(ctx context.Context, userID, storyID string) ([]models.StoryView, error)
	GetSavedStories(ctx context.Context, user *models.User, page, limit int) (*StoryList, error)
	GetMyStories(ctx context.Context, userID string, page, limit int) (*StoryList, error)
}

type storyService struct {
	storyRepo    repository.StoryRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

func NewStoryService(storyRepo repository.StoryRepository, userRepo repository.UserRepository, categoryRepo repository.CategoryRepository) StoryService {
	return &storyService{
		storyRepo:    storyRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *storyService) ListStories(ctx context.Context, categoryID string, page, limit int) (*StoryList, error) {
	return s.list(ctx, repository.StoryFilter{
		CategoryID: categoryID,
		Limit:      limit,
		Offset:     Offset(page, limit),
	})
}

func (s *storyService) GetMyStories(ctx context.Context, userID string, page, limit int) (*StoryList, error) {
	return s.list(ctx, repository.StoryFilter{
		OwnerID: userID,
		Limit:   limit,
		Offset:  Offset(page, limit),
	})
}

// list runs the page query and the count concurrently.
func (s *storyService) list(ctx context.Context, filter repository.StoryFilter) (*StoryList, error) {
	var result StoryList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stories, err := s.storyRepo.List(gctx, filter)
		result.Stories = stories
		return err
	})
	g.Go(func() error {
		total, err := s.storyRepo.Count(gctx, filter)
		result.Total = total
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.Internal("Failed to list stories", err)
	}

	return &result, nil
}

func (s *storyService) GetStory(ctx context.Context, storyID string) (*models.StoryView, error) {
	view, err := s.storyRepo.GetViewByID(ctx, storyID)
	if err != nil {
		return nil, storyError(err, "Failed to get story")
	}
	return view, nil
}

func (s *storyService) CreateStory(ctx context.Context, ownerID string, req repository.CreateStoryRequest) (*models.StoryView, error) {
	if err := s.ensureCategory(ctx, req.Category); err != nil {
		return nil, err
	}

	story := &models.Story{
		Img:        req.Img,
		Title:      req.Title,
		Article:    req.Article,
		CategoryID: req.Category,
		OwnerID:    ownerID,
		Date:       req.Date,
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, apperror.Internal("Failed to create story", err)
	}

	if err := s.userRepo.AdjustArticlesAmount(ctx, ownerID, 1); err != nil {
		return nil, apperror.Internal("Failed to create story", err)
	}

	return s.GetStory(ctx, story.StoryID)
}

func (s *storyService) UpdateStory(ctx context.Context, userID, storyID string, req repository.UpdateStoryRequest) (*models.StoryView, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, storyError(err, "Failed to update story")
	}

	if story.OwnerID != userID {
		return nil, apperror.Forbidden("You are not allowed to edit this story")
	}

	if req.Category != nil {
		if err := s.ensureCategory(ctx, *req.Category); err != nil {
			return nil, err
		}
	}

	if err := s.storyRepo.Update(ctx, storyID, req); err != nil {
		return nil, storyError(err, "Failed to update story")
	}

	return s.GetStory(ctx, storyID)
}

// DeleteStory removes the story, decrements the owner's counter and pulls the
// story from every saved set.
func (s *storyService) DeleteStory(ctx context.Context, userID, storyID string) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return storyError(err, "Failed to delete story")
	}

	if story.OwnerID != userID {
		return apperror.Forbidden("You are not allowed to delete this story")
	}

	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		return storyError(err, "Failed to delete story")
	}

	if err := s.userRepo.AdjustArticlesAmount(ctx, story.OwnerID, -1); err != nil {
		return apperror.Internal("Failed to delete story", err)
	}

	if _, err := s.userRepo.RemoveStoryFromAllSaved(ctx, storyID); err != nil {
		return apperror.Internal("Failed to delete story", err)
	}

	return nil
}

// SaveStory bumps the counter only when the conditional add changed the set,
// so repeated or concurrent saves count once.
func (s *storyService) SaveStory(ctx context.Context, userID, storyID string) ([]models.StoryView, error) {
	if err := s.ensureStory(ctx, storyID); err != nil {
		return nil, err
	}

	added, err := s.userRepo.AddSavedStory(ctx, userID, storyID)
	if err != nil {
		return nil, apperror.Internal("Failed to save story", err)
	}

	if added {
		if err := s.storyRepo.IncrementFavoriteCount(ctx, storyID); err != nil {
			return nil, apperror.Internal("Failed to save story", err)
		}
	}

	return s.savedSet(ctx, userID)
}

func (s *storyService) UnsaveStory(ctx context.Context, userID, storyID string) ([]models.StoryView, error) {
	if err := s.ensureStory(ctx, storyID); err != nil {
		return nil, err
	}

	removed, err := s.userRepo.RemoveSavedStory(ctx, userID, storyID)
	if err != nil {
		return nil, apperror.Internal("Failed to remove saved story", err)
	}

	if removed {
		if err := s.storyRepo.DecrementFavoriteCount(ctx, storyID); err != nil {
			return nil, apperror.Internal("Failed to remove saved story", err)
		}
	}

	return s.savedSet(ctx, userID)
}

func (s *storyService) GetSavedStories(ctx context.Context, user *models.User, page, limit int) (*StoryList, error) {
	total := len(user.SavedStories)
	if total == 0 {
		return &StoryList{Stories: []models.StoryView{}}, nil
	}

	stories, err := s.storyRepo.ListByIDs(ctx, []string(user.SavedStories), limit, Offset(page, limit))
	if err != nil {
		return nil, apperror.Internal("Failed to get saved stories", err)
	}

	return &StoryList{Stories: stories, Total: total}, nil
}

func (s *storyService) savedSet(ctx context.Context, userID string) ([]models.StoryView, error) {
	stories, err := s.storyRepo.ListSavedByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("Failed to get saved stories", err)
	}
	return stories, nil
}

func (s *storyService) ensureStory(ctx context.Context, storyID string) error {
	exists, err := s.storyRepo.Exists(ctx, storyID)
	if err != nil {
		return apperror.Internal("Failed to check story", err)
	}
	if !exists {
		return apperror.NotFound("Story not found")
	}
	return nil
}

func (s *storyService) ensureCategory(ctx context.Context, categoryID string) error {
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return apperror.Internal("Failed to check category", err)
	}
	if !exists {
		return apperror.NotFound("Category not found")
	}
	return nil
}

func storyError(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Story not found")
	}
	return apperror.Internal(message, err)
}
