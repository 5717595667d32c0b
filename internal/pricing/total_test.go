package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeTotal(t *testing.T) {
	lines := []Line{
		{UnitPrice: 90, Quantity: 6},  // 540
		{UnitPrice: 100, Quantity: 2}, // 200
	}

	totals := ComposeTotal(lines, 40)
	assert.Equal(t, int64(740), totals.Subtotal)
	assert.Equal(t, int64(700), totals.Total)
}

func TestComposeTotalDiscountFloor(t *testing.T) {
	totals := ComposeTotal([]Line{{UnitPrice: 50, Quantity: 1}}, 200)
	assert.Equal(t, int64(0), totals.Total)
}

func TestSplitPaymentOddTotal(t *testing.T) {
	payNow, payLater := SplitPayment(999)
	assert.Equal(t, int64(500), payNow)
	assert.Equal(t, int64(499), payLater)
}

func TestSplitPaymentAlwaysSumsToTotal(t *testing.T) {
	for _, total := range []int64{0, 1, 2, 3, 999, 1000, 123457} {
		payNow, payLater := SplitPayment(total)
		assert.Equal(t, total, payNow+payLater, "total %d", total)
		assert.GreaterOrEqual(t, payNow, payLater)
		assert.LessOrEqual(t, payNow-payLater, int64(1))
	}
}
