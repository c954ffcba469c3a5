package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rana718/seedling/internal/config"
	"github.com/Rana718/seedling/internal/database"
	"github.com/Rana718/seedling/internal/logging"
)

// session holds what every database-backed command needs.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	adapter database.DatabaseAdapter
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
	})

	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Debug("connected to database", "provider", cfg.Database.Provider)

	return &session{cfg: cfg, logger: logger, adapter: adapter}, nil
}

func (s *session) Close() error {
	return s.adapter.Close()
}
