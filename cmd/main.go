package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/cache"
	"github.com/siahsang/yatube/internal/config"
	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/internal/data"
	"github.com/siahsang/yatube/internal/database"
	"github.com/siahsang/yatube/internal/media"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

type application struct {
	config *config.Config
	logger *slog.Logger
	core   *core.Core
	auth   *auth.Auth
	cache  *cache.PageCache
	media  *media.Store
	wg     sync.WaitGroup
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger := configLogger(cfg)
	logger.Info("Starting application...", "env", cfg.Env, "db_driver", cfg.DB.Driver)

	db, err := database.Open(cfg.DB, logger)
	if err != nil {
		logger.Error("Error opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(ctx, db, cfg.DB.Driver)
	cancel()
	if err != nil {
		logger.Error("Error migrating database", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		logger.Error("Error creating application", "error", err)
		os.Exit(1)
	}

	if err := app.serve(); err != nil {
		logger.Error("Error running server", "error", err)
		os.Exit(1)
	}
}

func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	images, err := media.NewStore(cfg.MediaRoot, logger)
	if err != nil {
		return nil, err
	}

	models := data.NewModels(databaseutils.NewSQLTemplate(db, cfg.DB.QueryTimeout), logger)
	session := databaseutils.NewSession(db, logger)

	return &application{
		config: cfg,
		logger: logger,
		core:   core.NewCore(logger, models, session, images, cfg.PageSize),
		auth:   auth.New(cfg.JWTSecret, cfg.TokenTTL),
		cache:  cache.New(cfg.IndexCacheSize, cfg.IndexCacheTTL, logger),
		media:  images,
	}, nil
}

func configLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}
