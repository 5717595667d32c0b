package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentHandler receives confirmations from the payment-verification
// automation. The automation authenticates with the shared confirm
// token; the encrypted note issued with the UPI link then proves the
// confirmation belongs to the order. The note alone is not a
// credential: it travels to the customer inside the payment link.
type PaymentHandler struct {
	Orders *service.OrderService
}

type ConfirmPaymentRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Note    string `json:"note" binding:"required"`
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	secret := config.AppConfig.Payment.ConfirmToken
	token := c.GetHeader("X-Confirm-Token")
	if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.ConfirmPayment(req.OrderID, req.Amount, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrPaymentMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment could not be verified"})
		case errors.Is(err, service.ErrBadTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment recorded",
		"order_status":   order.OrderStatus,
		"payment_status": order.PaymentStatus,
	})
}
