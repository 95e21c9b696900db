package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"travelers/internal/apperror"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DataResponse struct {
	Data any `json:"data"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteSuccess(w, ErrorResponse{Error: message}, statusCode)
}

func WriteSuccess(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// RespondError renders err as {"error": message} with the status of its kind.
// Internal causes are logged, never written.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("Internal server error", err)
	}

	if appErr.Kind == apperror.KindInternal && logger != nil {
		logger.Error("request failed", slog.String("message", appErr.Message), slog.Any("error", appErr.Err))
	}

	WriteError(w, appErr.Message, appErr.Kind.HTTPStatus())
}

func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	RespondError(w, h.Log, err)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Route not found", http.StatusNotFound)
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
