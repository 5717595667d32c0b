package pricing

// Line is one priced order line: the unit price already reflects the
// slab resolution and, for pre-orders, the per-unit discount.
type Line struct {
	UnitPrice int64
	Quantity  int
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Total    int64 `json:"total"`
}

// ComposeTotal sums the lines and subtracts the coupon discount. The
// discount never pushes the total below zero.
func ComposeTotal(lines []Line, discount int64) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}
	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	return Totals{Subtotal: subtotal, Total: total}
}

// SplitPayment derives the two pre-order installments. The ceil/floor
// pairing keeps payNow + payLater == total for any whole-rupee amount.
func SplitPayment(total int64) (payNow, payLater int64) {
	payNow = (total + 1) / 2
	payLater = total / 2
	return payNow, payLater
}
