package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func confirmRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &PaymentHandler{}
	r := gin.New()
	r.POST("/api/v1/payment/confirm", h.Confirm)
	return r
}

func postConfirm(r *gin.Engine, token string) *httptest.ResponseRecorder {
	body := `{"order_id":1,"amount":500,"note":"whatever-the-link-carried"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Confirm-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// The encrypted note rides inside the UPI link handed to the customer,
// so possessing it must never be enough to confirm a payment. Only the
// automation's shared token opens the endpoint.
func TestConfirmRejectsCallersWithoutAutomationToken(t *testing.T) {
	config.AppConfig = &config.Config{
		Payment: config.PaymentConfig{ConfirmToken: "automation-secret"},
	}
	r := confirmRouter()

	w := postConfirm(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")

	w = postConfirm(r, "guessed-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// With no token configured the endpoint fails closed instead of
// trusting anyone who holds a payment link.
func TestConfirmFailsClosedWhenTokenUnconfigured(t *testing.T) {
	config.AppConfig = &config.Config{}
	r := confirmRouter()

	w := postConfirm(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postConfirm(r, "anything")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
