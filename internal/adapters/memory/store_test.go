package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlinfo/internal/domain"
	"urlinfo/internal/seed"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := New(seed.Default())
	require.NoError(t, err)

	sigs, err := s.AllSignatures(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Default().Signatures, sigs)

	sigs[0].Pattern = "mutated"
	again, _ := s.AllSignatures(ctx)
	assert.NotEqual(t, "mutated", again[0].Pattern)

	rec, found, err := s.FindDomain(ctx, "Spam-Domain.NET.")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.StatusBlacklisted, rec.Status)

	_, found, err = s.FindDomain(ctx, "nowhere.test")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	s, err := New(seed.Default())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.FindDomain(ctx, "example.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnavailable(t *testing.T) {
	_, _, err := Unavailable{}.FindDomain(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = Unavailable{}.AllSignatures(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
