package service

import (
	"context"

	"travelers/internal/apperror"
	"travelers/internal/repository"
)

type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type Health struct {
	Status string `json:"status"`
	Tables int    `json:"tables"`
}

type HealthService interface {
	Check(ctx context.Context) (*Health, error)
}

type healthService struct {
	schemaRepo repository.SchemaRepository
	db         Pinger
}

func NewHealthService(schemaRepo repository.SchemaRepository, db Pinger) HealthService {
	return &healthService{schemaRepo: schemaRepo, db: db}
}

func (h *healthService) Check(ctx context.Context) (*Health, error) {
	if err := h.db.HealthCheck(ctx); err != nil {
		return nil, apperror.Internal("Database unavailable", err)
	}

	tables, err := h.schemaRepo.CountTables(ctx)
	if err != nil {
		return nil, apperror.Internal("Database unavailable", err)
	}

	return &Health{Status: "ok", Tables: tables}, nil
}
