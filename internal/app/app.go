package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/askloop/askloop/internal/config"
	"github.com/askloop/askloop/internal/db"
	"github.com/askloop/askloop/internal/repository"
	"github.com/askloop/askloop/internal/service"
	"github.com/askloop/askloop/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Storage          storage.Storage
	ClipService      *service.ClipService
	FeedService      *service.FeedService
	DirectoryService *service.DirectoryService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	clipRepository := repository.NewClipRepository(database)
	responderRepository := repository.NewResponderRepository(database)

	// Storage
	clipStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	clipService := service.NewClipService(clipRepository, clipStorage)
	feedService := service.NewFeedService(clipRepository, clipStorage, cfg.ListPageSize)
	directoryService := service.NewDirectoryService(responderRepository)

	return &App{
		Cfg:              cfg,
		DB:               database,
		Storage:          clipStorage,
		ClipService:      clipService,
		FeedService:      feedService,
		DirectoryService: directoryService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
