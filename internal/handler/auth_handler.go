package handlers

import (
	"net/http"

	"travelers/internal/repository"
	"travelers/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=32"`
	Email    string `json:"email" validate:"required,email,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, session, err := h.AuthService.Register(r.Context(), repository.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.SessionService.SetSessionCookies(w, session)
	WriteSuccess(w, user, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, session, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.SessionService.SetSessionCookies(w, session)
	WriteSuccess(w, user, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.AuthService.Logout(r.Context(),
		cookieValue(r, service.SessionIDCookie),
		cookieValue(r, service.AccessTokenCookie))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.SessionService.ClearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := h.AuthService.RefreshSession(r.Context(),
		cookieValue(r, service.SessionIDCookie),
		cookieValue(r, service.RefreshTokenCookie))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.SessionService.SetSessionCookies(w, session)
	WriteSuccess(w, MessageResponse{Message: "Successfully refreshed a session!"}, http.StatusOK)
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
