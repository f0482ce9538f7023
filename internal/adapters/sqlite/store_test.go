package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlinfo/internal/domain"
	"urlinfo/internal/seed"
)

func openSeeded(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "ref", "urlinfo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	c := seed.Default()
	require.NoError(t, s.SeedSignatures(ctx, c.Signatures))
	require.NoError(t, s.SeedDomains(ctx, c.Domains))
	return s
}

func TestSignaturesKeepInsertionOrder(t *testing.T) {
	s := openSeeded(t)
	sigs, err := s.AllSignatures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seed.Default().Signatures, sigs)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()
	c := seed.Default()
	require.NoError(t, s.SeedSignatures(ctx, c.Signatures))
	require.NoError(t, s.SeedDomains(ctx, []domain.DomainRecord{{Hostname: "example.com", Status: domain.StatusMalicious}}))

	sigs, err := s.AllSignatures(ctx)
	require.NoError(t, err)
	assert.Len(t, sigs, len(c.Signatures))

	rec, found, err := s.FindDomain(ctx, "example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusSafe, rec.Status, "existing record not overwritten")
}

func TestFindDomain(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	rec, found, err := s.FindDomain(ctx, "SPAM-DOMAIN.net")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "spam-domain.net", rec.Hostname)
	assert.Equal(t, domain.StatusBlacklisted, rec.Status)
	assert.Equal(t, "Spam source", rec.Description)
	assert.True(t, rec.LastUpdated.Equal(seed.Default().Domains[6].LastUpdated))

	_, found, err = s.FindDomain(ctx, "absent.example")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSeedRejectsInvalidRows(t *testing.T) {
	s := openSeeded(t)
	err := s.SeedSignatures(context.Background(), []domain.ThreatSignature{
		{Pattern: "new-one", PatternClass: domain.PatternPath, ThreatCategory: domain.ThreatXSS},
		{Pattern: "bad", PatternClass: "header", ThreatCategory: domain.ThreatXSS},
	})
	assert.Error(t, err)

	sigs, err := s.AllSignatures(context.Background())
	require.NoError(t, err)
	assert.Len(t, sigs, len(seed.Default().Signatures), "failed seed rolled back")
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "urlinfo.db")
	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SeedDomains(ctx, seed.Default().Domains))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	_, found, err := s.FindDomain(ctx, "google.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, s.Ping(ctx))
}

func TestConcurrentLookups(t *testing.T) {
	s := openSeeded(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, found, err := s.FindDomain(context.Background(), "phishing-bank.com")
			assert.NoError(t, err)
			assert.True(t, found)
		}()
	}
	wg.Wait()
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
