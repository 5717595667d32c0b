package pricing

import (
	"testing"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riceSlabs() []models.PriceSlab {
	return []models.PriceSlab{
		{ID: 1, MinQty: 1, MaxQty: 5, PerUnit: 100, Label: "1-5 bags"},
		{ID: 2, MinQty: 6, MaxQty: 20, PerUnit: 90, Label: "6-20 bags"},
		{ID: 3, MinQty: 21, MaxQty: 0, PerUnit: 80, Label: "21+ bags"},
	}
}

func TestResolveSlabPicksTierByQuantity(t *testing.T) {
	slabs := riceSlabs()

	s, err := ResolveSlab(slabs, 6, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, int64(90), s.PerUnit)

	s, err = ResolveSlab(slabs, 1, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, int64(100), s.PerUnit)

	s, err = ResolveSlab(slabs, 100, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, int64(80), s.PerUnit)
}

func TestResolveSlabBoundaries(t *testing.T) {
	slabs := riceSlabs()

	// Exactly at MaxQty stays in the tier; one above moves to the next.
	s, err := ResolveSlab(slabs, 5, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.ID)

	s, err = ResolveSlab(slabs, 20, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, uint(2), s.ID)

	s, err = ResolveSlab(slabs, 21, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, uint(3), s.ID)
}

func TestResolveSlabDeterministic(t *testing.T) {
	slabs := riceSlabs()
	a, err := ResolveSlab(slabs, 12, FallbackFirst)
	require.NoError(t, err)
	b, err := ResolveSlab(slabs, 12, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResolveSlabGapFallback(t *testing.T) {
	// Gap between 5 and 10: quantity 7 matches nothing.
	gappy := []models.PriceSlab{
		{ID: 1, MinQty: 1, MaxQty: 5, PerUnit: 100},
		{ID: 2, MinQty: 10, MaxQty: 0, PerUnit: 80},
	}

	s, err := ResolveSlab(gappy, 7, FallbackFirst)
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.ID, "lenient policy falls back to the first stored slab")

	_, err = ResolveSlab(gappy, 7, FallbackError)
	assert.ErrorIs(t, err, ErrNoSlab)
}

func TestResolveSlabEmptyTable(t *testing.T) {
	_, err := ResolveSlab(nil, 3, FallbackFirst)
	assert.ErrorIs(t, err, ErrNoSlab)
}
