package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
)

var (
	_ ports.SignatureRepository = (*DB)(nil)
	_ ports.DomainRepository    = (*DB)(nil)
	_ ports.Seeder              = (*DB)(nil)
)

// SignatureRepository: id order is insertion order, which is the matcher's
// tie-break order.
func (db *DB) AllSignatures(ctx context.Context) ([]domain.ThreatSignature, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT pattern, pattern_type, threat_type, description
        FROM threat_signatures
        ORDER BY id
    `)
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

// DomainRepository
func (db *DB) FindDomain(ctx context.Context, hostname string) (domain.DomainRecord, bool, error) {
	var rec domain.DomainRecord
	var status string
	err := db.Pool.QueryRow(ctx, `
        SELECT hostname, status, description, last_updated
        FROM domain_records
        WHERE hostname = $1
    `, domain.NormalizeHostname(hostname)).Scan(&rec.Hostname, &status, &rec.Description, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DomainRecord{}, false, nil
	}
	if err != nil {
		return domain.DomainRecord{}, false, err
	}
	rec.Status = domain.DomainStatus(status)
	return rec, true, nil
}

// Seeder. Rows are inserted one transaction per table so a partial seed never
// leaves the signature order half-written.
func (db *DB) SeedSignatures(ctx context.Context, sigs []domain.ThreatSignature) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	for _, s := range sigs {
		if _, err = tx.Exec(ctx, `
            INSERT INTO threat_signatures (pattern, pattern_type, threat_type, description)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (pattern) DO NOTHING
        `, s.Pattern, string(s.PatternClass), string(s.ThreatCategory), s.Description); err != nil {
			return fmt.Errorf("seed signature %q: %w", s.Pattern, err)
		}
	}
	return nil
}

func (db *DB) SeedDomains(ctx context.Context, recs []domain.DomainRecord) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	now := time.Now().UTC()
	for _, r := range recs {
		if _, err = tx.Exec(ctx, `
            INSERT INTO domain_records (hostname, status, description, last_updated)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (hostname) DO NOTHING
        `, domain.NormalizeHostname(r.Hostname), string(r.Status), r.Description, lastUpdatedOr(r.LastUpdated, now)); err != nil {
			return fmt.Errorf("seed domain %q: %w", r.Hostname, err)
		}
	}
	return nil
}

// lastUpdatedOr stamps records seeded without a timestamp.
func lastUpdatedOr(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
