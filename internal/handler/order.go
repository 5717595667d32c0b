package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/payment"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/pricing"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/service"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/pkg/database"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Orders *service.OrderService
}

type ValidateCouponRequest struct {
	Code        string `json:"code" binding:"required"`
	OrderAmount int64  `json:"order_amount" binding:"required,gt=0"`
}

func (h *OrderHandler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := service.LookupCoupon(database.DB, pricing.NormalizeCode(req.Code))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}

	c.JSON(http.StatusOK, pricing.ValidateCoupon(found, req.OrderAmount, time.Now()))
}

type CreateOrderRequest struct {
	Items             []service.OrderItemInput `json:"items" binding:"required,dive"`
	Address           string                   `json:"address" binding:"required"`
	Pincode           string                   `json:"pincode" binding:"required,len=6,numeric"`
	Landmark          string                   `json:"landmark"`
	Lat               *float64                 `json:"lat"`
	Lng               *float64                 `json:"lng"`
	OrderType         string                   `json:"order_type" binding:"required,oneof=instant preorder"`
	CouponCode        string                   `json:"coupon_code"`
	GSTNumber         string                   `json:"gst_number" binding:"omitempty,len=15"`
	ScheduledDelivery *time.Time               `json:"scheduled_delivery"`
	Transportation    bool                     `json:"transportation"`
	TransportAmount   int64                    `json:"transport_amount" binding:"omitempty,gte=0"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.GetUint("userID")

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.CreateOrder(service.CreateOrderInput{
		UserID:            &userID,
		Items:             req.Items,
		Address:           req.Address,
		Pincode:           req.Pincode,
		Landmark:          req.Landmark,
		Lat:               req.Lat,
		Lng:               req.Lng,
		OrderType:         req.OrderType,
		CouponCode:        req.CouponCode,
		GSTNumber:         req.GSTNumber,
		ScheduledDelivery: req.ScheduledDelivery,
		Transportation:    req.Transportation,
		TransportAmount:   req.TransportAmount,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOpenOrderExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrInvalidCoupon),
			errors.Is(err, pricing.ErrNoSlab):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	payNow := order.TotalAmount
	var payLater int64
	if order.OrderType == models.OrderTypePreorder {
		payNow, payLater = pricing.SplitPayment(order.TotalAmount)
	}

	// The ordered user's cart is spent.
	database.DB.Where("user_id = ?", userID).Delete(&models.CartItem{})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Order placed successfully",
		"order":     order,
		"pay_now":   payNow,
		"pay_later": payLater,
		"upi_link":  order.UPILink,
	})
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID := c.GetUint("userID")

	var orders []models.Order
	if err := database.DB.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := c.GetUint("userID")

	var order models.Order
	if err := database.DB.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to fetch order"})
		return
	}

	resp := gin.H{"order": order}

	// Surface the remaining-installment link for prepaid pre-orders.
	if order.OrderType == models.OrderTypePreorder && order.OrderStatus == models.StatusPrepaid {
		if link, err := h.Orders.SecondInstallmentLink(&order); err == nil {
			_, payLater := pricing.SplitPayment(order.TotalAmount)
			resp["pay_later"] = payLater
			resp["second_installment_link"] = link
		}
	}

	c.JSON(http.StatusOK, resp)
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID := c.GetUint("userID")

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var orderID uint
	if err := bindID(c.Param("id"), &orderID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Orders.CancelOrder(orderID, &userID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrCannotCancel):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order cannot be cancelled after dispatch"})
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		}
		return
	}

	resp := gin.H{"message": "Order cancelled", "order": order}
	if order.PaymentStatus != models.PaymentPending {
		resp["refund_note"] = "Any amount paid will be refunded within 3-5 business days"
	}
	c.JSON(http.StatusOK, resp)
}

// SupportLink returns a WhatsApp link prefilled with the order context.
func (h *OrderHandler) SupportLink(c *gin.Context) {
	userID := c.GetUint("userID")

	var order models.Order
	if err := database.DB.Where("user_id = ?", userID).First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	msg := fmt.Sprintf("Hello! I need help with my order *%s* (₹%d, %s).",
		order.OrderNo, order.TotalAmount, order.OrderStatus)
	c.JSON(http.StatusOK, gin.H{
		"whatsapp_url": payment.WhatsAppLink(config.AppConfig.Defaults.WhatsappNumber, msg),
	})
}
