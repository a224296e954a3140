package order

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		o := &Order{Status: tc.from}
		assert.Equal(t, tc.allowed, o.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).CanBeCancelled())
	assert.True(t, (&Order{Status: OrderStatusProcessing}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusShipped}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusDelivered}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusRefunded}).CanBeCancelled())
}

func TestIsFinal(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusCancelled}).IsFinal())
	assert.True(t, (&Order{Status: OrderStatusRefunded}).IsFinal())
	assert.False(t, (&Order{Status: OrderStatusPending}).IsFinal())
	assert.False(t, (&Order{Status: OrderStatusDelivered}).IsFinal())
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(OrderStatusPending))
	assert.True(t, IsValidStatus(OrderStatusRefunded))
	assert.False(t, IsValidStatus(OrderStatus("archived")))
	assert.False(t, IsValidStatus(OrderStatus("")))
}

func TestIsValidPaymentMethod(t *testing.T) {
	for _, m := range []string{
		PaymentMethodCreditCard,
		PaymentMethodDebitCard,
		PaymentMethodPaypal,
		PaymentMethodCashOnDelivery,
		PaymentMethodBankTransfer,
	} {
		assert.True(t, IsValidPaymentMethod(m), m)
	}
	assert.False(t, IsValidPaymentMethod("bitcoin"))
	assert.False(t, IsValidPaymentMethod(""))
	assert.False(t, IsValidPaymentMethod("Credit_Card"))
}

func TestNewOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d+-[0-9A-F]{5}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n := NewOrderNumber()
		assert.Regexp(t, pattern, n)
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestSetStatus_AppendsHistory(t *testing.T) {
	o := &Order{ID: 42, Status: OrderStatusPending}
	assert.Empty(t, o.StatusHistory)

	o.SetStatus(OrderStatusProcessing, "Payment received", 7)

	assert.Equal(t, OrderStatusProcessing, o.Status)
	assert.Len(t, o.StatusHistory, 1)
	assert.Equal(t, uint(42), o.StatusHistory[0].OrderID)
	assert.Equal(t, OrderStatusProcessing, o.StatusHistory[0].Status)
	assert.Equal(t, "Payment received", o.StatusHistory[0].Note)
	assert.Equal(t, uint(7), o.StatusHistory[0].CreatedBy)

	o.SetStatus(OrderStatusShipped, "On the truck", 1)
	assert.Len(t, o.StatusHistory, 2)
}

func TestMarkPaid_PendingMovesToProcessing(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	result := PaymentResult{TransactionID: "txn_123", Status: "completed"}

	o.MarkPaid(result, 7)

	assert.True(t, o.IsPaid)
	assert.NotNil(t, o.PaidAt)
	assert.Equal(t, result, o.PaymentResult)
	assert.Equal(t, OrderStatusProcessing, o.Status)
	assert.Len(t, o.StatusHistory, 1)
}

func TestMarkPaid_NonPendingKeepsStatus(t *testing.T) {
	o := &Order{Status: OrderStatusShipped}

	o.MarkPaid(PaymentResult{TransactionID: "txn_456"}, 7)

	assert.True(t, o.IsPaid)
	assert.Equal(t, OrderStatusShipped, o.Status)
	assert.Empty(t, o.StatusHistory)
}

func TestMarkDelivered(t *testing.T) {
	o := &Order{Status: OrderStatusShipped}

	o.MarkDelivered()

	assert.True(t, o.IsDelivered)
	assert.NotNil(t, o.DeliveredAt)
}

func TestGetFormattedTotal(t *testing.T) {
	o := &Order{TotalPrice: 12999}
	assert.InDelta(t, 129.99, o.GetFormattedTotal(), 0.0001)
}
