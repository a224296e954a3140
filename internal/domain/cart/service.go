// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

const countCacheTTL = 5 * time.Minute

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	inventory   *inventory.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		inventory:   inventory.NewService(db),
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// GetCart returns the user's cart, creating it on first access. Items
// whose product has gone inactive or out of stock are pruned so the
// cart always reflects what can actually be bought.
func (s *Service) GetCart(userID uint) (*Cart, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	pruned := cart.Items[:0]
	var removed []uint
	for _, item := range cart.Items {
		if item.Product.IsPurchasable() {
			pruned = append(pruned, item)
		} else {
			removed = append(removed, item.ID)
		}
	}

	if len(removed) > 0 {
		if err := s.db.Delete(&CartItem{}, removed).Error; err != nil {
			return nil, fmt.Errorf("failed to prune cart items: %w", err)
		}
		cart.Items = pruned
		if err := s.saveTotals(cart); err != nil {
			return nil, err
		}
	}

	return cart, nil
}

// AddItem adds a product to the cart or merges into an existing line.
// The line price is refreshed to the product's current effective price
// either way.
func (s *Service) AddItem(userID uint, req *AddToCartRequest) (*Cart, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	newQuantity := req.Quantity
	existing := cart.FindItem(req.ProductID)
	if existing != nil {
		newQuantity += existing.Quantity
	}

	// Availability is checked against the merged quantity
	prod, err := s.inventory.Available(req.ProductID, newQuantity)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Quantity = newQuantity
		existing.Price = prod.EffectivePrice()
		if err := s.db.Save(existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item := CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     prod.EffectivePrice(),
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
		item.Product = *prod
		cart.Items = append(cart.Items, item)
	}

	if err := s.saveTotals(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets the quantity of a cart item and refreshes its price
// to the product's current effective price. Quantity zero removes the
// item.
func (s *Service) UpdateItem(userID, itemID uint, req *UpdateCartItemRequest) (*Cart, error) {
	if req.Quantity == 0 {
		return s.RemoveItem(userID, itemID)
	}

	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var target *CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			target = &cart.Items[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: cart item %d", apperrors.ErrNotFound, itemID)
	}

	prod, err := s.inventory.Available(target.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}

	// The snapshot price is refreshed alongside the quantity
	target.Quantity = req.Quantity
	target.Price = prod.EffectivePrice()
	if err := s.db.Model(&CartItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity": target.Quantity,
			"price":    target.Price,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	if err := s.saveTotals(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a single item from the cart.
func (s *Service) RemoveItem(userID, itemID uint) (*Cart, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	found := false
	remaining := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return nil, fmt.Errorf("%w: cart item %d", apperrors.ErrNotFound, itemID)
	}

	if err := s.db.Delete(&CartItem{}, itemID).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	cart.Items = remaining

	if err := s.saveTotals(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart removes all items from the user's cart.
func (s *Service) ClearCart(userID uint) error {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return err
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	cart.Items = nil
	return s.saveTotals(cart)
}

// GetItemCount returns the total quantity across the cart. Missing
// carts count as zero and are NOT created; this endpoint is polled by
// storefront headers so it stays a single indexed read.
func (s *Service) GetItemCount(userID uint) (int, error) {
	if count, ok := s.cachedCount(userID); ok {
		return count, nil
	}

	var cart Cart
	err := s.db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	s.cacheCount(userID, cart.TotalItems)
	return cart.TotalItems, nil
}

// Private helper methods

func (s *Service) getOrCreateCart(userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart = Cart{UserID: userID, Items: []CartItem{}}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// saveTotals rederives and persists the cart totals, then drops the
// cached count.
func (s *Service) saveTotals(cart *Cart) error {
	cart.RecalculateTotals()
	err := s.db.Model(&Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"total_items":  cart.TotalItems,
		"total_amount": cart.TotalAmount,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save cart totals: %w", err)
	}
	s.invalidateCount(cart.UserID)
	return nil
}

func countCacheKey(userID uint) string {
	return fmt.Sprintf("cart:count:%d", userID)
}

func (s *Service) cachedCount(userID uint) (int, bool) {
	if s.redisClient == nil {
		return 0, false
	}
	val, err := s.redisClient.Get(context.Background(), countCacheKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (s *Service) cacheCount(userID uint, count int) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Set(context.Background(), countCacheKey(userID), count, countCacheTTL)
}

func (s *Service) invalidateCount(userID uint) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(context.Background(), countCacheKey(userID))
}
