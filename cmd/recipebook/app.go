package main

import (
	"context"
	"fmt"

	"recipebook/internal/config"
	"recipebook/internal/database"
	"recipebook/internal/service"
	"recipebook/internal/storage"

	"github.com/rs/zerolog"
)

// app holds the wired catalog services shared by every command.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	catalog  service.CatalogService
	transfer service.TransferService
	close    func()
}

func newApp(ctx context.Context) (*app, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	store, closeStore, err := database.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	provider := newProvider(ctx, cfg, logger)

	session := service.NewSession(store, logger)
	catalog := service.NewCatalogService(session, cfg.Transfer.DeletePolicy, logger)
	transfer := service.NewTransferService(session, provider, service.NewLogPresenter(logger), service.TransferDefaults{
		ExportDir:     cfg.Transfer.ExportDir,
		RecipesFile:   cfg.Transfer.RecipesFile,
		DishTypesFile: cfg.Transfer.DishTypesFile,
		MergePolicy:   cfg.Transfer.MergePolicy,
	}, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		catalog:  catalog,
		transfer: transfer,
		close:    closeStore,
	}, nil
}

// newProvider returns the document provider: the local file system, fronted
// by S3 when it is enabled.
func newProvider(ctx context.Context, cfg *config.Config, logger zerolog.Logger) storage.Provider {
	fileProvider := storage.NewFileProvider(logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for catalog documents (S3 disabled)")
		return fileProvider
	}

	s3Provider, err := storage.NewS3Provider(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 provider, falling back to local file system only")
		return fileProvider
	}

	return storage.NewFallbackProvider(s3Provider, fileProvider, cfg.S3.Prefix, true, logger)
}
