package savedjobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetLoadsOnce(t *testing.T) {
	b := &fakeBackend{records: records(2)}
	s := newTestStore(b)
	ctx := context.Background()

	first, err := s.Get(ctx, "a")
	require.NoError(t, err)
	second, err := s.Get(ctx, "a")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, b.lists)

	_, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Lookup(t *testing.T) {
	s := newTestStore(&fakeBackend{})
	_, err := s.Lookup("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_SweepIdle(t *testing.T) {
	s := newTestStore(&fakeBackend{records: records(1)})
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := s.Get(ctx, "old")
	require.NoError(t, err)

	clock = clock.Add(50 * time.Minute)
	_, err = s.Get(ctx, "fresh")
	require.NoError(t, err)

	clock = clock.Add(20 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, err = s.Lookup("old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Lookup("fresh")
	assert.NoError(t, err)
}
