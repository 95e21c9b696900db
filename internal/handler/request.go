package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"travelers/internal/apperror"
)

const (
	maxBodyBytes = 1 << 20
	maxPage      = 100000
)

// NewValidator reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON rejects unknown fields and validates the decoded value.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("Request body is required")
		}
		return apperror.Validation("Invalid request body")
	}

	return h.validate(dst)
}

func (h *Handlers) validate(value any) error {
	err := h.Validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return apperror.Validation(fieldMessage(validationErrors[0]))
	}
	return apperror.Validation("Invalid request")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid url", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// pathID validates a uuid path variable.
func (h *Handlers) pathID(value string) error {
	if err := h.Validate.Var(value, "required,uuid"); err != nil {
		return apperror.Validation("Invalid id")
	}
	return nil
}

type pageQuery struct {
	Page  int `json:"page" validate:"min=1,max=100000"`
	Limit int `json:"limit" validate:"min=1,max=50"`
}

// pagination reads page and the named size parameter with their defaults.
func (h *Handlers) pagination(r *http.Request, sizeParam string, defaultSize int) (int, int, error) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), "page", 1)
	if err != nil {
		return 0, 0, err
	}
	size, err := intParam(query.Get(sizeParam), sizeParam, defaultSize)
	if err != nil {
		return 0, 0, err
	}

	q := pageQuery{Page: page, Limit: size}
	if err := h.Validate.Struct(q); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && validationErrors[0].Field() == "limit" {
			return 0, 0, apperror.Validation(fmt.Sprintf("%s must be between 1 and 50", sizeParam))
		}
		if errors.As(err, &validationErrors) && validationErrors[0].Tag() == "max" {
			return 0, 0, apperror.Validation(fmt.Sprintf("page must be at most %d", maxPage))
		}
		return 0, 0, apperror.Validation("page must be at least 1")
	}

	return page, size, nil
}

func intParam(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(fmt.Sprintf("%s must be a number", name))
	}
	return value, nil
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
