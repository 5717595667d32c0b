package service

import (
	"testing"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTable(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.StatusPending, models.StatusPrepaid},
		{models.StatusPending, models.StatusFullyPaid},
		{models.StatusPending, models.StatusCancelled},
		{models.StatusPrepaid, models.StatusFullyPaid},
		{models.StatusPrepaid, models.StatusDispatched},
		{models.StatusPrepaid, models.StatusCancelled},
		{models.StatusFullyPaid, models.StatusDispatched},
		{models.StatusFullyPaid, models.StatusCancelled},
		{models.StatusDispatched, models.StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	rejected := []struct{ from, to string }{
		{models.StatusPending, models.StatusDispatched},
		{models.StatusPending, models.StatusDelivered},
		{models.StatusDispatched, models.StatusCancelled},
		{models.StatusDispatched, models.StatusPending},
		{models.StatusDelivered, models.StatusCancelled},
		{models.StatusDelivered, models.StatusDispatched},
		{models.StatusCancelled, models.StatusPending},
		{models.StatusCancelled, models.StatusFullyPaid},
		{models.StatusFullyPaid, models.StatusDelivered},
	}
	for _, tc := range rejected {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestTerminalStatesAbsorbNothing(t *testing.T) {
	all := []string{
		models.StatusPending, models.StatusPrepaid, models.StatusFullyPaid,
		models.StatusDispatched, models.StatusDelivered, models.StatusCancelled,
	}
	for _, to := range all {
		assert.False(t, CanTransition(models.StatusDelivered, to))
		assert.False(t, CanTransition(models.StatusCancelled, to))
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(models.StatusPending))
	assert.True(t, Cancellable(models.StatusPrepaid))
	assert.True(t, Cancellable(models.StatusFullyPaid))

	// Scenario: dispatched orders must refuse cancellation.
	assert.False(t, Cancellable(models.StatusDispatched))
	assert.False(t, Cancellable(models.StatusDelivered))
	assert.False(t, Cancellable(models.StatusCancelled))
}

func TestOrderOpenGuard(t *testing.T) {
	open := models.Order{OrderStatus: models.StatusPending, PaymentStatus: models.PaymentPending}
	assert.True(t, open.Open())

	prepaid := models.Order{OrderStatus: models.StatusPrepaid, PaymentStatus: models.PaymentPartial}
	assert.True(t, prepaid.Open())

	paid := models.Order{OrderStatus: models.StatusFullyPaid, PaymentStatus: models.PaymentCompleted}
	assert.False(t, paid.Open())

	cancelled := models.Order{OrderStatus: models.StatusCancelled, PaymentStatus: models.PaymentPending}
	assert.False(t, cancelled.Open())
}
