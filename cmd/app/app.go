package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"travelers/internal/config"
	"travelers/internal/database"
	handlers "travelers/internal/handler"
	"travelers/internal/repository"
	"travelers/internal/router"
	"travelers/internal/service"
	"travelers/internal/storage"
)

type App struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *database.DB
	server *http.Server
}

// New connects the database and object storage and assembles the HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		_ = db.CloseDB()
		return nil, err
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		_ = db.CloseDB()
		return nil, err
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, db)
	h := handlers.NewHandlers(services, cfg, logger)

	return &App{
		cfg: cfg,
		log: logger,
		db:  db,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
			Handler:           router.New(h),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until ctx is canceled, then drains connections and closes the database.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.db.CloseDB(); err != nil {
			a.log.Error("close database", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("server started", "addr", a.server.Addr, "env", a.cfg.AppEnv)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		a.log.Info("shutting down server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
