package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (*OrderService, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return NewOrderService(db, nil), mock
}

func orderRow(id uint, orderType, orderStatus, paymentStatus string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_no", "order_type", "order_status", "payment_status", "total_amount"}).
		AddRow(id, "SVL-20250115-00001", orderType, orderStatus, paymentStatus, 500)
}

// An admin cancellation must put the reserved units back on the shelf,
// exactly like a customer cancellation does.
func TestUpdateStatusCancelReleasesStock(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `orders`").
		WillReturnRows(orderRow(1, models.OrderTypeInstant, models.StatusFullyPaid, models.PaymentCompleted))
	mock.ExpectQuery("SELECT (.+) FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price"}).
			AddRow(10, 1, 5, 3, 90).
			AddRow(11, 1, 6, 2, 100))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `products` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `products` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.UpdateStatus(1, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Non-cancelling transitions must leave stock alone.
func TestUpdateStatusDispatchLeavesStockAlone(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `orders`").
		WillReturnRows(orderRow(1, models.OrderTypeInstant, models.StatusFullyPaid, models.PaymentCompleted))
	mock.ExpectQuery("SELECT (.+) FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price"}).
			AddRow(10, 1, 5, 3, 90))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.UpdateStatus(1, models.StatusDispatched)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDispatched, order.OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupCouponMissingIsNotAnError(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `coupons`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))

	found, err := LookupCoupon(svc.DB, "NOSUCHCODE")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestLookupCouponSurfacesInfrastructureErrors(t *testing.T) {
	svc, mock := newMockService(t)

	dbDown := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
	mock.ExpectQuery("SELECT (.+) FROM `coupons`").WillReturnError(dbDown)

	found, err := LookupCoupon(svc.DB, "SAVE20")
	require.Error(t, err)
	assert.Nil(t, found)
	assert.False(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// A coupon lookup that fails because the database is down must not be
// reported to the customer as an invalid coupon code.
func TestCreateOrderCouponLookupFailureIsNotInvalidCoupon(t *testing.T) {
	config.AppConfig = &config.Config{}
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `products`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_price", "available_qty", "is_active"}).
			AddRow(5, "Sona Masoori 25kg", 100, 40, true))
	mock.ExpectQuery("SELECT (.+) FROM `price_slabs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "min_qty", "max_qty", "per_unit", "label", "position"}).
			AddRow(1, 5, 1, 0, 100, "Retail", 0))
	mock.ExpectExec("UPDATE `products` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM `coupons`").
		WillReturnError(errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(CreateOrderInput{
		Items:      []OrderItemInput{{ProductID: 5, Quantity: 2}},
		OrderType:  models.OrderTypeInstant,
		CouponCode: "SAVE20",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCoupon))
	assert.ErrorContains(t, err, "failed to look up coupon")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFormatOrderNo(t *testing.T) {
	day := time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "SVL-20250115-00007", formatOrderNo("SVL", day, 7))
	assert.Equal(t, "SVL-20250115-123456", formatOrderNo("SVL", day, 123456))

	// Distinct row IDs can never share a number, whatever the clock says.
	assert.NotEqual(t, formatOrderNo("SVL", day, 7), formatOrderNo("SVL", day, 8))
	assert.Equal(t, formatOrderNo("SVL", day, 7), formatOrderNo("SVL", day.Add(time.Hour), 7))
}
