package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/config"
)

// Store is an opened catalog repository and the function releasing it.
type Store struct {
	Repository catalog.Repository
	Close      func()
}

// OpenCatalog opens the catalog store selected by cfg.Driver and makes sure its schema exists.
func OpenCatalog(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		repo := catalog.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("database", cfg.Name).
			Msg("postgres catalog connected")
		return &Store{Repository: repo, Close: pool.Close}, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo := catalog.NewSQLiteRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("sqlite catalog opened")
		return &Store{Repository: repo, Close: func() { _ = db.Close() }}, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory catalog; imports are lost on restart")
		return &Store{Repository: catalog.NewInMemoryRepository(), Close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
