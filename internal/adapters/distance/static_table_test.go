package distance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	m map[string]float64
}

func (c *memCache) Get(ctx context.Context, lane string) (float64, bool, error) {
	km, ok := c.m[lane]
	return km, ok, nil
}

func (c *memCache) Put(ctx context.Context, lane string, km float64) error {
	c.m[lane] = km
	return nil
}

func TestKnownLaneBothDirections(t *testing.T) {
	table := NewStaticTable(nil)

	km, known, err := table.DistanceKm(context.Background(), "Casablanca", "Madrid")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 1050.0, km)

	km, known, err = table.DistanceKm(context.Background(), "madrid", "CASABLANCA")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 1050.0, km)
}

func TestUnknownLaneFallbackBounds(t *testing.T) {
	table := NewStaticTable(nil)

	km, known, err := table.DistanceKm(context.Background(), "Oslo", "Lisbon")
	require.NoError(t, err)
	assert.False(t, known)
	assert.GreaterOrEqual(t, km, float64(fallbackMinKm))
	assert.LessOrEqual(t, km, float64(fallbackMaxKm))
}

func TestUnknownLaneStableWithCache(t *testing.T) {
	table := NewStaticTable(&memCache{m: map[string]float64{}})

	first, known, err := table.DistanceKm(context.Background(), "Oslo", "Lisbon")
	require.NoError(t, err)
	assert.False(t, known)

	second, _, err := table.DistanceKm(context.Background(), "Oslo", "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmptyCityRejected(t *testing.T) {
	table := NewStaticTable(nil)

	_, _, err := table.DistanceKm(context.Background(), "", "Madrid")
	assert.Error(t, err)
}
