package pricing

import (
	"errors"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
)

var ErrNoSlab = errors.New("no pricing defined for quantity")

// FallbackPolicy controls what ResolveSlab does when no tier covers the
// requested quantity. Slab tables are supposed to partition the positive
// quantities without gaps, but that is not enforced at write time.
type FallbackPolicy int

const (
	// FallbackFirst returns the first stored slab when nothing matches.
	FallbackFirst FallbackPolicy = iota
	// FallbackError reports ErrNoSlab instead.
	FallbackError
)

// ResolveSlab picks the price tier for a quantity: the first slab in
// stored order with qty >= MinQty and (MaxQty == 0 or qty <= MaxQty).
func ResolveSlab(slabs []models.PriceSlab, qty int, policy FallbackPolicy) (models.PriceSlab, error) {
	if len(slabs) == 0 {
		return models.PriceSlab{}, ErrNoSlab
	}
	for _, s := range slabs {
		if qty >= s.MinQty && (s.MaxQty == 0 || qty <= s.MaxQty) {
			return s, nil
		}
	}
	if policy == FallbackError {
		return models.PriceSlab{}, ErrNoSlab
	}
	return slabs[0], nil
}
