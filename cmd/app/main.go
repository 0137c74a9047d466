package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GamerReviewsAPI/internal/config"
	"GamerReviewsAPI/internal/db"
	"GamerReviewsAPI/internal/model"
	"GamerReviewsAPI/internal/repository"
	"GamerReviewsAPI/internal/services"
	"GamerReviewsAPI/internal/storage"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	}

	root := &cobra.Command{
		Use:          "gamer-reviews",
		Short:        "Game review catalog API",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, migrate)
	return root
}

// newServer wires middleware and routes. It does not start listening.
func newServer(cfg *config.Config, gs *services.GameService, images services.ImageStorage) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = newHTTPErrorHandler(cfg.MaxUploadBytes())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	// room for the multipart envelope around the largest allowed image
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB+1)))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.NewBaseResponse(http.StatusOK, "OK"))
	})

	api := e.Group("/api")
	registerGameRoutes(api, gs, images)
	registerStaticRoutes(e, cfg.UploadDir)

	return e
}

func openStore(ctx context.Context, cfg *config.Config, logger echo.Logger) (services.GameStore, func(), error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("DATABASE_URL not set, games are kept in memory")
		return repository.NewMemoryGameRepository(), func() {}, nil
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGameRepository(pool), pool.Close, nil
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating upload dir %s", cfg.UploadDir)
	}

	logger := log.New("gamer-reviews")
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error(err)
		return err
	}
	defer closeStore()

	images := storage.NewLocalImageStorage(cfg.UploadDir, cfg.PublicBaseURL, cfg.MaxUploadBytes())
	gameSvc := services.NewGameService(store, cfg.RankingSize)

	e := newServer(cfg, gameSvc, images)
	e.Logger = logger

	for _, r := range e.Routes() {
		e.Logger.Infof("%s %s", r.Method, r.Path)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		e.Logger.Error(err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := log.New("gamer-reviews")
	if cfg.UsesMemoryStore() {
		err := errors.New("DATABASE_URL is required to migrate")
		logger.Error(err)
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(err)
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error(err)
		return err
	}
	logger.Info("schema up to date")
	return nil
}
