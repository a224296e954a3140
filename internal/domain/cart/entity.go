// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/product"
)

// Cart represents a user's shopping cart. Each user has at most one
// active cart row; items hang off it as cart_items.
type Cart struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalItems  int            `gorm:"default:0" json:"total_items"`  // Sum of all quantities
	TotalAmount int64          `gorm:"default:0" json:"total_amount"` // In cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem represents a single product line inside a cart
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index" json:"cart_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"` // Unit price snapshot at add time, in cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// RecalculateTotals rederives the cart totals from its items. Must be
// called after any item mutation, before the cart is saved.
func (c *Cart) RecalculateTotals() {
	totalItems := 0
	var totalAmount int64
	for _, item := range c.Items {
		totalItems += item.Quantity
		totalAmount += item.Price * int64(item.Quantity)
	}
	c.TotalItems = totalItems
	c.TotalAmount = totalAmount
}

// FindItem returns the cart item for the given product, or nil.
func (c *Cart) FindItem(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
