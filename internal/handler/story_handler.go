package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"travelers/internal/apperror"
	"travelers/internal/models"
	"travelers/internal/repository"
)

const (
	defaultStoryLimit = 9
)

type CreateStoryRequest struct {
	Img      string `json:"img" validate:"required,url"`
	Title    string `json:"title" validate:"required,notblank,max=150"`
	Article  string `json:"article" validate:"required,notblank,max=10000"`
	Category string `json:"category" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,notblank"`
}

// UpdateStoryRequest fields are optional, but a present field must not be blank.
type UpdateStoryRequest struct {
	Img      *string `json:"img" validate:"omitnil,url"`
	Title    *string `json:"title" validate:"omitnil,notblank,max=150"`
	Article  *string `json:"article" validate:"omitnil,notblank,max=10000"`
	Category *string `json:"category" validate:"omitnil,uuid"`
	Date     *string `json:"date" validate:"omitnil,notblank"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type StoriesResponse struct {
	Stories    []models.StoryView `json:"stories"`
	Pagination Pagination         `json:"pagination"`
}

type PagedStoriesResponse struct {
	Data       []models.StoryView `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

func (h *Handlers) ListStories(w http.ResponseWriter, r *http.Request) {
	page, limit, err := h.pagination(r, "limit", defaultStoryLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	category := r.URL.Query().Get("category")
	if category != "" {
		if err := h.pathID(category); err != nil {
			h.respondError(w, apperror.Validation("category must be a valid id"))
			return
		}
	}

	list, err := h.StoryService.ListStories(r.Context(), category, page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, StoriesResponse{
		Stories:    list.Stories,
		Pagination: Pagination{Page: page, Limit: limit, Total: list.Total, TotalPages: totalPages(list.Total, limit)},
	}, http.StatusOK)
}

func (h *Handlers) GetStory(w http.ResponseWriter, r *http.Request) {
	storyID, ok := h.storyID(w, r)
	if !ok {
		return
	}

	story, err := h.StoryService.GetStory(r.Context(), storyID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, DataResponse{Data: story}, http.StatusOK)
}

func (h *Handlers) CreateStory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req CreateStoryRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	story, err := h.StoryService.CreateStory(r.Context(), user.UserID, repository.CreateStoryRequest{
		Img:      req.Img,
		Title:    req.Title,
		Article:  req.Article,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, DataResponse{Data: story}, http.StatusCreated)
}

func (h *Handlers) UpdateStory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	storyID, ok := h.storyID(w, r)
	if !ok {
		return
	}

	var req UpdateStoryRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	update := repository.UpdateStoryRequest{
		Img:      req.Img,
		Title:    req.Title,
		Article:  req.Article,
		Category: req.Category,
		Date:     req.Date,
	}
	if update.IsEmpty() {
		h.respondError(w, apperror.Validation("At least one field must be provided"))
		return
	}

	story, err := h.StoryService.UpdateStory(r.Context(), user.UserID, storyID, update)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, DataResponse{Data: story}, http.StatusOK)
}

func (h *Handlers) DeleteStory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	storyID, ok := h.storyID(w, r)
	if !ok {
		return
	}

	if err := h.StoryService.DeleteStory(r.Context(), user.UserID, storyID); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SaveStory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	storyID, ok := h.storyID(w, r)
	if !ok {
		return
	}

	saved, err := h.StoryService.SaveStory(r.Context(), user.UserID, storyID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, DataResponse{Data: saved}, http.StatusOK)
}

func (h *Handlers) UnsaveStory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	storyID, ok := h.storyID(w, r)
	if !ok {
		return
	}

	saved, err := h.StoryService.UnsaveStory(r.Context(), user.UserID, storyID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, DataResponse{Data: saved}, http.StatusOK)
}

func (h *Handlers) GetSavedStories(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, limit, err := h.pagination(r, "limit", defaultStoryLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	list, err := h.StoryService.GetSavedStories(r.Context(), user, page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeStoryPage(w, list.Stories, list.Total, page, limit)
}

func (h *Handlers) GetMyStories(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, limit, err := h.pagination(r, "limit", defaultStoryLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	list, err := h.StoryService.GetMyStories(r.Context(), user.UserID, page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeStoryPage(w, list.Stories, list.Total, page, limit)
}

func (h *Handlers) writeStoryPage(w http.ResponseWriter, stories []models.StoryView, total, page, limit int) {
	if stories == nil {
		stories = []models.StoryView{}
	}

	WriteSuccess(w, PagedStoriesResponse{
		Data:       stories,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages(total, limit)},
	}, http.StatusOK)
}

func (h *Handlers) storyID(w http.ResponseWriter, r *http.Request) (string, bool) {
	storyID := mux.Vars(r)["storyId"]
	if err := h.pathID(storyID); err != nil {
		h.respondError(w, err)
		return "", false
	}
	return storyID, true
}

// requireUser guards handlers mounted behind the mandatory gate.
func (h *Handlers) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		h.respondError(w, apperror.Unauthorized("Not authorized"))
		return nil, false
	}
	return user, true
}
