package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
)

// PreorderUnitDiscount is the flat per-unit reduction applied to every
// line of a pre-order before quantity multiplication.
const PreorderUnitDiscount int64 = 10

// PreorderUnitPrice applies the pre-order discount to a slab price.
// Amounts are whole rupees, so no rounding is needed.
func PreorderUnitPrice(perUnit int64) int64 {
	p := perUnit - PreorderUnitDiscount
	if p < 0 {
		return 0
	}
	return p
}

type CouponResult struct {
	Valid    bool   `json:"is_valid"`
	Discount int64  `json:"discount"`
	Message  string `json:"message"`
}

// NormalizeCode uppercases a coupon code; storage and lookup both go
// through this so matching is case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon checks a coupon against an order amount. A nil coupon
// stands for "not found" and reports the same message as expired or
// inactive codes.
func ValidateCoupon(c *models.Coupon, orderAmount int64, now time.Time) CouponResult {
	if c == nil || !c.IsActive || now.After(c.ExpiresAt) {
		return CouponResult{Message: "Invalid coupon code"}
	}
	if orderAmount < c.MinOrderAmount {
		return CouponResult{Message: fmt.Sprintf("Minimum order amount of ₹%d required", c.MinOrderAmount)}
	}

	var discount int64
	switch c.DiscountType {
	case models.CouponPercentage:
		discount = orderAmount * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case models.CouponFixed:
		// MaxDiscount is not applied to fixed coupons; the cap only
		// exists for the percentage type.
		discount = c.DiscountValue
	default:
		return CouponResult{Message: "Invalid coupon code"}
	}

	return CouponResult{
		Valid:    true,
		Discount: discount,
		Message:  fmt.Sprintf("Coupon applied: ₹%d off", discount),
	}
}
