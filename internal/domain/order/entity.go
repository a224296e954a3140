// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// validTransitions encodes the customer-facing lifecycle. Admin status
// updates bypass this map and may set any known status directly.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// IsValidStatus reports whether s is one of the known order statuses.
func IsValidStatus(s OrderStatus) bool {
	_, ok := validTransitions[s]
	return ok
}

// Accepted payment methods
const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodDebitCard      = "debit_card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodBankTransfer   = "bank_transfer"
)

var paymentMethods = map[string]bool{
	PaymentMethodCreditCard:     true,
	PaymentMethodDebitCard:      true,
	PaymentMethodPaypal:         true,
	PaymentMethodCashOnDelivery: true,
	PaymentMethodBankTransfer:   true,
}

// IsValidPaymentMethod reports whether m is an accepted payment method.
func IsValidPaymentMethod(m string) bool {
	return paymentMethods[m]
}

// Order represents the order entity
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus `gorm:"not null;default:'pending';index" json:"status"`

	// Financial information, all in cents
	ItemsPrice    int64 `gorm:"not null" json:"items_price"`
	TaxPrice      int64 `gorm:"default:0" json:"tax_price"`
	ShippingPrice int64 `gorm:"default:0" json:"shipping_price"`
	TotalPrice    int64 `gorm:"not null" json:"total_price"`

	// Payment information
	PaymentMethod string        `gorm:"not null;size:50" json:"payment_method"`
	IsPaid        bool          `gorm:"default:false" json:"is_paid"`
	PaidAt        *time.Time    `json:"paid_at"`
	PaymentResult PaymentResult `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result"`

	// Fulfillment information
	IsDelivered    bool       `gorm:"default:false" json:"is_delivered"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	TrackingNumber string     `gorm:"size:100" json:"tracking_number"`

	// Shipping address
	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents items in an order
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Image      string    `gorm:"size:500" json:"image"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`       // Price per unit in cents
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PaymentResult captures the payment gateway confirmation (embedded in Order)
type PaymentResult struct {
	TransactionID string `gorm:"size:255" json:"transaction_id"`
	Status        string `gorm:"size:50" json:"status"`
	UpdateTime    string `gorm:"size:50" json:"update_time"`
	EmailAddress  string `gorm:"size:255" json:"email_address"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null" json:"status"`
	Note      string      `gorm:"size:500" json:"note"`
	CreatedBy uint        `gorm:"index" json:"created_by"` // User ID who made the change
	CreatedAt time.Time   `json:"created_at"`
}

// Address represents the shipping address (embedded in Order)
type Address struct {
	FullName     string `gorm:"size:200" json:"full_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:100" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// NewOrderNumber builds a unique order number. The suffix comes from a
// fresh UUID so collisions within the same millisecond are harmless.
func NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:5]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// Business methods for Order

// CanTransitionTo checks the customer-facing lifecycle rules.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, next := range validTransitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// CanBeCancelled checks if the order can still be cancelled.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// IsFinal reports whether no further transitions are possible.
func (o *Order) IsFinal() bool {
	return len(validTransitions[o.Status]) == 0
}

// SetStatus moves the order to the given status and appends a history
// entry. Callers are responsible for legality checks; creation must not
// go through here so the initial pending state leaves no history row.
func (o *Order) SetStatus(status OrderStatus, note string, changedBy uint) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Note:      note,
		CreatedBy: changedBy,
		CreatedAt: time.Now().UTC(),
	})
}

// MarkPaid records the payment confirmation and moves a pending order
// to processing.
func (o *Order) MarkPaid(result PaymentResult, changedBy uint) {
	now := time.Now().UTC()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = result
	if o.Status == OrderStatusPending {
		o.SetStatus(OrderStatusProcessing, "Payment received", changedBy)
	}
}

// MarkDelivered records the delivery timestamp alongside the status.
func (o *Order) MarkDelivered() {
	now := time.Now().UTC()
	o.IsDelivered = true
	o.DeliveredAt = &now
}

// GetFormattedTotal returns the total amount in major currency units.
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalPrice) / 100
}
