// Package sqlite is a single-file reference store for local runs without
// Postgres. Schema and seed semantics match the postgres adapter.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	_ ports.SignatureRepository = (*Store)(nil)
	_ ports.DomainRepository    = (*Store)(nil)
	_ ports.Seeder              = (*Store)(nil)
)

type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) AllSignatures(ctx context.Context) ([]domain.ThreatSignature, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern, pattern_type, threat_type, description
		FROM threat_signatures
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ThreatSignature
	for rows.Next() {
		var pattern, class, category, desc string
		if err := rows.Scan(&pattern, &class, &category, &desc); err != nil {
			return nil, err
		}
		out = append(out, domain.ThreatSignature{
			Pattern:        pattern,
			PatternClass:   domain.PatternClass(class),
			ThreatCategory: domain.ThreatCategory(category),
			Description:    desc,
		})
	}
	return out, rows.Err()
}

func (s *Store) FindDomain(ctx context.Context, hostname string) (domain.DomainRecord, bool, error) {
	var rec domain.DomainRecord
	var status, updated string
	err := s.db.QueryRowContext(ctx, `
		SELECT hostname, status, description, last_updated
		FROM domain_records
		WHERE hostname = ?`, domain.NormalizeHostname(hostname)).
		Scan(&rec.Hostname, &status, &rec.Description, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DomainRecord{}, false, nil
	}
	if err != nil {
		return domain.DomainRecord{}, false, err
	}
	rec.Status = domain.DomainStatus(status)
	if rec.LastUpdated, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return domain.DomainRecord{}, false, fmt.Errorf("parse last_updated for %s: %w", rec.Hostname, err)
	}
	return rec, true, nil
}

func (s *Store) SeedSignatures(ctx context.Context, sigs []domain.ThreatSignature) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, sig := range sigs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO threat_signatures (pattern, pattern_type, threat_type, description)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (pattern) DO NOTHING`,
				sig.Pattern, string(sig.PatternClass), string(sig.ThreatCategory), sig.Description); err != nil {
				return fmt.Errorf("seed signature %q: %w", sig.Pattern, err)
			}
		}
		return nil
	})
}

func (s *Store) SeedDomains(ctx context.Context, recs []domain.DomainRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, r := range recs {
			updated := r.LastUpdated
			if updated.IsZero() {
				updated = time.Now()
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO domain_records (hostname, status, description, last_updated)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (hostname) DO NOTHING`,
				domain.NormalizeHostname(r.Hostname), string(r.Status), r.Description,
				updated.UTC().Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("seed domain %q: %w", r.Hostname, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
