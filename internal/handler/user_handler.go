package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"travelers/internal/apperror"
	"travelers/internal/models"
	"travelers/internal/repository"
)

const (
	defaultUsersLimit   = 10
	defaultProfileLimit = 6
	avatarFormField     = "avatar"
	multipartOverhead   = 64 << 10
)

type UpdateUserRequest struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=32"`
	Description *string `json:"description" validate:"omitnil,notblank,max=150"`
}

type UsersPagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type UsersResponse struct {
	Data       []models.User   `json:"data"`
	Pagination UsersPagination `json:"pagination"`
}

type ProfilePagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

type UserProfileResponse struct {
	User       *models.User       `json:"user"`
	Stories    []models.StoryView `json:"stories"`
	Pagination ProfilePagination  `json:"pagination"`
}

type UpdateUserResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type AvatarResponse struct {
	URL string `json:"url"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := h.pagination(r, "limit", defaultUsersLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	list, err := h.UserService.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, UsersResponse{
		Data:       list.Users,
		Pagination: UsersPagination{Total: list.Total, Page: page, Limit: limit, Pages: totalPages(list.Total, limit)},
	}, http.StatusOK)
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, user, http.StatusOK)
}

func (h *Handlers) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := h.pathID(userID); err != nil {
		h.respondError(w, err)
		return
	}

	page, perPage, err := h.pagination(r, "perPage", defaultProfileLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	profile, err := h.UserService.GetUserProfile(r.Context(), userID, page, perPage)
	if err != nil {
		h.respondError(w, err)
		return
	}

	stories := profile.Stories
	if stories == nil {
		stories = []models.StoryView{}
	}

	WriteSuccess(w, UserProfileResponse{
		User:    profile.User,
		Stories: stories,
		Pagination: ProfilePagination{
			Total:      profile.Total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages(profile.Total, perPage),
		},
	}, http.StatusOK)
}

func (h *Handlers) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	updated, err := h.UserService.UpdateUser(r.Context(), user.UserID, repository.UpdateUserRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, UpdateUserResponse{Message: "User data updated", User: updated}, http.StatusOK)
}

func (h *Handlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxAvatarSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.Cfg.MaxAvatarSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, apperror.Validation("File is too large"))
			return
		}
		h.respondError(w, apperror.Validation("No file"))
		return
	}

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		h.respondError(w, apperror.Validation("No file"))
		return
	}
	defer file.Close()

	url, err := h.UserService.UpdateAvatar(r.Context(), user.UserID, file, header.Size)
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, AvatarResponse{URL: url}, http.StatusOK)
}
