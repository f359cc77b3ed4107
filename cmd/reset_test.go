package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/store"
)

func TestClearStale(t *testing.T) {
	ctx := context.Background()
	ps := progress.NewStore(store.NewMemoryKV(), nil)
	require.NoError(t, ps.Save(ctx, "flexbox", progress.NewSet(0, 1)))

	removed, err := clearStale(ctx, ps, "grid")
	require.NoError(t, err)
	assert.False(t, removed, "nothing was stored for grid")

	units, err := ps.StoredUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flexbox"}, units)

	removed, err = clearStale(ctx, ps, "flexbox")
	require.NoError(t, err)
	assert.True(t, removed)

	units, err = ps.StoredUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, units)
}
