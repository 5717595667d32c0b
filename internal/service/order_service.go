package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/events"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/payment"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/pricing"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOpenOrderExists   = errors.New("complete payment or cancel your existing order")
	ErrInvalidCoupon     = errors.New("invalid coupon")
	ErrBadTransition     = errors.New("status transition not allowed")
	ErrCannotCancel      = errors.New("order cannot be cancelled after dispatch")
	ErrConflict          = errors.New("order was modified concurrently, retry")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentMismatch   = errors.New("payment could not be verified")
)

// transitions is the order-status state machine. delivered and
// cancelled are terminal.
var transitions = map[string][]string{
	models.StatusPending:    {models.StatusPrepaid, models.StatusFullyPaid, models.StatusCancelled},
	models.StatusPrepaid:    {models.StatusFullyPaid, models.StatusDispatched, models.StatusCancelled},
	models.StatusFullyPaid:  {models.StatusDispatched, models.StatusCancelled},
	models.StatusDispatched: {models.StatusDelivered},
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether a customer may still cancel: anything up
// to and including fully_paid, never once dispatched.
func Cancellable(status string) bool {
	switch status {
	case models.StatusPending, models.StatusPrepaid, models.StatusFullyPaid:
		return true
	}
	return false
}

type OrderService struct {
	DB  *gorm.DB
	Bus *events.Bus
}

func NewOrderService(db *gorm.DB, bus *events.Bus) *OrderService {
	return &OrderService{DB: db, Bus: bus}
}

type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderInput struct {
	UserID            *uint
	Items             []OrderItemInput
	Address           string
	Pincode           string
	Landmark          string
	Lat               *float64
	Lng               *float64
	OrderType         string
	CouponCode        string
	GSTNumber         string
	ScheduledDelivery *time.Time
	Transportation    bool
	TransportAmount   int64
}

func (s *OrderService) slabPolicy() pricing.FallbackPolicy {
	if config.AppConfig.Pricing.StrictSlabs {
		return pricing.FallbackError
	}
	return pricing.FallbackFirst
}

// formatOrderNo builds the customer-facing order number from the row's
// auto-increment ID, so concurrent checkouts can never collide on it.
func formatOrderNo(prefix string, t time.Time, id uint) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, t.Format("20060102"), id)
}

// LookupCoupon fetches a coupon by its normalized code. A missing
// coupon is (nil, nil); any other error is an infrastructure failure
// and must not be reported as an invalid code.
func LookupCoupon(db *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// releaseStock returns an order's reserved units to the shelf.
func releaseStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
			Update("available_qty", gorm.Expr("available_qty + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateOrder prices the items, reserves stock and persists the order
// with its items and UPI payment link in one transaction. Any failure
// rolls everything back; no partial order is ever visible.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}
	if in.OrderType != models.OrderTypeInstant && in.OrderType != models.OrderTypePreorder {
		return nil, fmt.Errorf("unknown order type %q", in.OrderType)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be a positive integer")
		}
	}

	// One open order per customer at a time.
	if in.UserID != nil {
		var open int64
		s.DB.Model(&models.Order{}).
			Where("user_id = ? AND order_status IN ? AND payment_status <> ?",
				*in.UserID,
				[]string{models.StatusPending, models.StatusPrepaid},
				models.PaymentCompleted).
			Count(&open)
		if open > 0 {
			return nil, ErrOpenOrderExists
		}
	}

	policy := s.slabPolicy()

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var lines []pricing.Line
	var orderItems []models.OrderItem

	for _, item := range in.Items {
		var product models.Product
		if err := tx.Preload("Slabs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).Where("is_active = ?", true).First(&product, item.ProductID).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("product %d not found", item.ProductID)
		}

		slab, err := pricing.ResolveSlab(product.Slabs, item.Quantity, policy)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%s: %w", product.Name, err)
		}

		unitPrice := slab.PerUnit
		if in.OrderType == models.OrderTypePreorder {
			unitPrice = pricing.PreorderUnitPrice(unitPrice)
		}

		// Atomic reserve: the conditional decrement closes the
		// check-then-insert race on the last units of stock.
		res := tx.Model(&models.Product{}).
			Where("id = ? AND available_qty >= ?", product.ID, item.Quantity).
			Update("available_qty", gorm.Expr("available_qty - ?", item.Quantity))
		if res.Error != nil {
			tx.Rollback()
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
		}

		lines = append(lines, pricing.Line{UnitPrice: unitPrice, Quantity: item.Quantity})
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			SlabLabel: slab.Label,
		})
	}

	subtotal := pricing.ComposeTotal(lines, 0).Subtotal

	var discount int64
	couponCode := ""
	if in.CouponCode != "" {
		code := pricing.NormalizeCode(in.CouponCode)
		found, err := LookupCoupon(tx, code)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
		res := pricing.ValidateCoupon(found, subtotal, time.Now())
		if !res.Valid {
			tx.Rollback()
			return nil, fmt.Errorf("%w: %s", ErrInvalidCoupon, res.Message)
		}
		discount = res.Discount
		couponCode = code
	}

	totals := pricing.ComposeTotal(lines, discount)

	// The order number needs the auto-increment ID, which only exists
	// after the insert. Create under a unique placeholder and swap in
	// the real number before commit.
	payHash := payment.NewPaymentHash()
	order := models.Order{
		OrderNo:           "TMP-" + payHash,
		UserID:            in.UserID,
		Subtotal:          totals.Subtotal,
		Discount:          discount,
		CouponCode:        couponCode,
		TotalAmount:       totals.Total,
		Address:           in.Address,
		Pincode:           in.Pincode,
		Landmark:          in.Landmark,
		Lat:               in.Lat,
		Lng:               in.Lng,
		OrderType:         in.OrderType,
		PaymentStatus:     models.PaymentPending,
		OrderStatus:       models.StatusPending,
		PaymentHash:       payHash,
		ScheduledDelivery: in.ScheduledDelivery,
		Transportation:    in.Transportation,
		TransportAmount:   in.TransportAmount,
		GSTNumber:         in.GSTNumber,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
		if err := tx.Create(&orderItems[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to add order item: %w", err)
		}
	}

	// Pre-orders collect the first installment now, the rest before
	// dispatch; instant orders collect everything up front.
	payable := totals.Total
	if in.OrderType == models.OrderTypePreorder {
		payable, _ = pricing.SplitPayment(totals.Total)
	}

	var uid uint
	if in.UserID != nil {
		uid = *in.UserID
	}
	note, err := payment.EncodeNote(config.AppConfig.Payment.NoteSecret, payment.Note{
		OrderID: order.ID,
		UserID:  uid,
		Amount:  payable,
	})
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to encode payment note: %w", err)
	}

	order.UPILink = payment.BuildLink(
		config.AppConfig.Payment.PayeeVPA,
		config.AppConfig.Payment.PayeeName,
		payable, note)
	order.OrderNo = formatOrderNo(config.AppConfig.Defaults.OrderPrefix, time.Now(), order.ID)

	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"order_no": order.OrderNo,
			"upi_link": order.UPILink,
		}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to store payment link: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.Items = orderItems
	s.publish("created", &order)
	return &order, nil
}

// UpdateStatus applies an admin transition. The conditional update is a
// compare-and-swap on the current status so concurrent writers cannot
// silently clobber each other. Cancelling releases the reserved stock,
// same as a customer cancellation.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}

	if !CanTransition(order.OrderStatus, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.OrderStatus, newStatus)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, order.OrderStatus).
		Update("order_status", newStatus)
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrConflict
	}

	if newStatus == models.StatusCancelled {
		if err := releaseStock(tx, order.Items); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.OrderStatus = newStatus
	s.publish("status_changed", &order)
	return &order, nil
}

// CancelOrder terminates a not-yet-dispatched order and releases its
// reserved stock. Collected money is refunded manually off-system.
func (s *OrderService) CancelOrder(orderID uint, userID *uint, reason string) (*models.Order, error) {
	var order models.Order
	query := s.DB.Preload("Items")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.First(&order, orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}

	if !Cancellable(order.OrderStatus) {
		return nil, ErrCannotCancel
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, order.OrderStatus).
		Updates(map[string]interface{}{
			"order_status":  models.StatusCancelled,
			"cancel_reason": reason,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrConflict
	}

	if err := releaseStock(tx, order.Items); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.OrderStatus = models.StatusCancelled
	order.CancelReason = reason
	s.publish("status_changed", &order)
	return &order, nil
}

// ConfirmPayment correlates a UPI payment back to its order via the
// encrypted transaction note and advances payment and order status.
func (s *OrderService) ConfirmPayment(orderID uint, amount int64, note string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}

	decoded, err := payment.DecodeNote(config.AppConfig.Payment.NoteSecret, amount, note)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentMismatch, err)
	}
	if decoded.OrderID != order.ID || decoded.Amount != amount {
		return nil, ErrPaymentMismatch
	}

	var newOrderStatus, newPaymentStatus string
	switch {
	case order.OrderType == models.OrderTypeInstant && order.OrderStatus == models.StatusPending:
		newOrderStatus, newPaymentStatus = models.StatusFullyPaid, models.PaymentCompleted
	case order.OrderType == models.OrderTypePreorder && order.OrderStatus == models.StatusPending:
		newOrderStatus, newPaymentStatus = models.StatusPrepaid, models.PaymentPartial
	case order.OrderType == models.OrderTypePreorder && order.OrderStatus == models.StatusPrepaid:
		newOrderStatus, newPaymentStatus = models.StatusFullyPaid, models.PaymentCompleted
	default:
		return nil, fmt.Errorf("%w: order is %s", ErrBadTransition, order.OrderStatus)
	}

	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, order.OrderStatus).
		Updates(map[string]interface{}{
			"order_status":   newOrderStatus,
			"payment_status": newPaymentStatus,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	order.OrderStatus = newOrderStatus
	order.PaymentStatus = newPaymentStatus
	s.publish("payment", &order)
	return &order, nil
}

// SecondInstallmentLink regenerates a payment link for the remaining
// half of a prepaid pre-order.
func (s *OrderService) SecondInstallmentLink(order *models.Order) (string, error) {
	if order.OrderType != models.OrderTypePreorder || order.OrderStatus != models.StatusPrepaid {
		return "", fmt.Errorf("%w: no pending installment", ErrBadTransition)
	}

	_, payLater := pricing.SplitPayment(order.TotalAmount)
	var uid uint
	if order.UserID != nil {
		uid = *order.UserID
	}
	note, err := payment.EncodeNote(config.AppConfig.Payment.NoteSecret, payment.Note{
		OrderID: order.ID,
		UserID:  uid,
		Amount:  payLater,
	})
	if err != nil {
		return "", err
	}
	return payment.BuildLink(
		config.AppConfig.Payment.PayeeVPA,
		config.AppConfig.Payment.PayeeName,
		payLater, note), nil
}

func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.Bus == nil {
		return
	}
	err := s.Bus.PublishOrder(events.OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
	})
	if err != nil {
		log.Printf("Failed to publish order event: %v", err)
	}
}
