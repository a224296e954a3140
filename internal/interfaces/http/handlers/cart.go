// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/response"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, redisClient, cfg),
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	userCart, err := h.cartService.GetCart(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", userCart)
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	count, err := h.cartService.GetItemCount(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart count retrieved successfully", gin.H{"count": count})
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	userCart, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart successfully", userCart)
}

// UpdateCartItem handles PUT /cart/:itemId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid cart item ID")
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	userCart, err := h.cartService.UpdateItem(userID, uint(itemID), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item updated successfully", userCart)
}

// RemoveFromCart handles DELETE /cart/:itemId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid cart item ID")
		return
	}

	userCart, err := h.cartService.RemoveItem(userID, uint(itemID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart successfully", userCart)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.cartService.ClearCart(userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared successfully", nil)
}
