package main

import (
	"context"
	"fmt"
	"log/slog"

	"urlinfo/internal/adapters/memory"
	pg "urlinfo/internal/adapters/postgres"
	"urlinfo/internal/adapters/sqlite"
	"urlinfo/internal/config"
	"urlinfo/internal/ports"
	"urlinfo/internal/seed"
)

type referenceStore interface {
	ports.SignatureRepository
	ports.DomainRepository
	ports.Pinger
}

// openStore opens the configured store, applies migrations and loads the
// seed corpus. Seeding is idempotent, so this runs on every start.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (referenceStore, func(), error) {
	corpus, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := seedStore(ctx, db, corpus); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("reference store ready", "driver", cfg.StoreDriver)
		return db, db.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := seedStore(ctx, s, corpus); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		logger.Info("reference store ready", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return s, func() { _ = s.Close() }, nil

	default:
		s, err := memory.New(corpus)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("reference store ready", "driver", config.DriverMemory,
			"signatures", len(corpus.Signatures), "domains", len(corpus.Domains))
		return s, func() {}, nil
	}
}

func seedStore(ctx context.Context, s ports.Seeder, c seed.Corpus) error {
	if err := s.SeedSignatures(ctx, c.Signatures); err != nil {
		return fmt.Errorf("seed signatures: %w", err)
	}
	if err := s.SeedDomains(ctx, c.Domains); err != nil {
		return fmt.Errorf("seed domains: %w", err)
	}
	return nil
}
