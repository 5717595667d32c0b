package pricing

import (
	"testing"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func validUntil(d time.Duration) time.Time {
	return time.Now().Add(d)
}

func TestPercentageCouponCappedAtMaxDiscount(t *testing.T) {
	c := &models.Coupon{
		Code:           "SAVE20",
		DiscountType:   models.CouponPercentage,
		DiscountValue:  20,
		MaxDiscount:    150,
		MinOrderAmount: 0,
		IsActive:       true,
		ExpiresAt:      validUntil(time.Hour),
	}

	res := ValidateCoupon(c, 1000, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, int64(150), res.Discount, "20 percent of 1000 is 200, capped at 150")
}

func TestPercentageCouponWithoutCap(t *testing.T) {
	c := &models.Coupon{
		DiscountType:  models.CouponPercentage,
		DiscountValue: 10,
		IsActive:      true,
		ExpiresAt:     validUntil(time.Hour),
	}

	res := ValidateCoupon(c, 800, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, int64(80), res.Discount)
	assert.LessOrEqual(t, res.Discount, int64(800))
}

func TestFixedCouponBelowMinimum(t *testing.T) {
	c := &models.Coupon{
		Code:           "FLAT100",
		DiscountType:   models.CouponFixed,
		DiscountValue:  100,
		MinOrderAmount: 500,
		IsActive:       true,
		ExpiresAt:      validUntil(time.Hour),
	}

	res := ValidateCoupon(c, 400, time.Now())
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "500")
}

func TestFixedCouponIgnoresMaxDiscount(t *testing.T) {
	c := &models.Coupon{
		DiscountType:   models.CouponFixed,
		DiscountValue:  100,
		MaxDiscount:    50, // present but only meaningful for percentage type
		MinOrderAmount: 500,
		IsActive:       true,
		ExpiresAt:      validUntil(time.Hour),
	}

	res := ValidateCoupon(c, 900, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, int64(100), res.Discount)
}

func TestCouponRejectedWhenMissingExpiredOrInactive(t *testing.T) {
	now := time.Now()

	res := ValidateCoupon(nil, 1000, now)
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid coupon code", res.Message)

	expired := &models.Coupon{
		DiscountType:  models.CouponFixed,
		DiscountValue: 50,
		IsActive:      true,
		ExpiresAt:     now.Add(-time.Minute),
	}
	res = ValidateCoupon(expired, 1000, now)
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid coupon code", res.Message)

	inactive := &models.Coupon{
		DiscountType:  models.CouponFixed,
		DiscountValue: 50,
		IsActive:      false,
		ExpiresAt:     now.Add(time.Hour),
	}
	res = ValidateCoupon(inactive, 1000, now)
	assert.False(t, res.Valid)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCode("  save20 "))
	assert.Equal(t, "FLAT100", NormalizeCode("Flat100"))
}

func TestPreorderUnitPrice(t *testing.T) {
	assert.Equal(t, int64(90), PreorderUnitPrice(100))
	assert.Equal(t, int64(0), PreorderUnitPrice(7), "discount never drives the price negative")
}
