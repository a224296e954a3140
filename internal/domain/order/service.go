// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// Service handles order business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	inventory *inventory.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		inventory: inventory.NewService(db),
	}
}

// OrderItemRequest represents a single caller-supplied order line
type OrderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Price     int64  `json:"price" binding:"required,min=0"` // Unit price in cents
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required"`
	ShippingAddress Address            `json:"shipping_address" binding:"required"`
	PaymentMethod   string             `json:"payment_method" binding:"required,oneof=credit_card debit_card paypal cash_on_delivery bank_transfer"`
	ItemsPrice      int64              `json:"items_price" binding:"min=0"`
	TaxPrice        int64              `json:"tax_price" binding:"min=0"`
	ShippingPrice   int64              `json:"shipping_price" binding:"min=0"`
	TotalPrice      int64              `json:"total_price" binding:"required,min=0"`
	Notes           string             `json:"notes,omitempty"`
}

// PayOrderRequest represents the payment gateway confirmation payload
type PayOrderRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Status        string `json:"status" binding:"required"`
	UpdateTime    string `json:"update_time"`
	EmailAddress  string `json:"email_address"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status         OrderStatus `json:"status" binding:"required"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	Note           string      `json:"note,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	UserID    uint        `form:"user_id"`
	IsPaid    *bool       `form:"is_paid"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
	DateFrom  string      `form:"date_from"`
	DateTo    string      `form:"date_to"`
}

// OrderListResponse represents order response with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateOrder runs the checkout workflow: validate every line against
// current stock, then create the order, reserve the stock and empty the
// cart in a single transaction. Nothing is written until the whole
// request is known to be fulfillable.
func (s *Service) CreateOrder(userID uint, req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.ErrEmptyOrder
	}
	if !IsValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}

	// Validation pass, before anything is written
	for _, item := range req.Items {
		if _, err := s.inventory.Available(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	order := Order{
		OrderNumber:     NewOrderNumber(),
		UserID:          userID,
		Status:          OrderStatusPending,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Image:      item.Image,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.Price * int64(item.Quantity),
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// The conditional decrement catches stock taken between the
		// validation pass and here, so the order can still fail cleanly.
		inv := s.inventory.WithTx(tx)
		for _, item := range order.Items {
			if err := inv.Reserve(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return clearCartTx(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	// Reload with relationships for the response
	if err := s.db.Preload("Items").First(&order, order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load created order: %w", err)
	}
	return &order, nil
}

// GetOrder retrieves a single order, enforcing owner-or-admin access.
func (s *Service) GetOrder(orderID, requesterID uint, isAdmin bool) (*Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("%w: order %d", apperrors.ErrUnauthorized, orderID)
	}
	return order, nil
}

// GetUserOrders retrieves orders for a specific user
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	return s.GetOrders(&OrderListRequest{
		Page:      page,
		Limit:     limit,
		UserID:    userID,
		SortBy:    "created_at",
		SortOrder: "desc",
	})
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}
	if req.IsPaid != nil {
		query = query.Where("is_paid = ?", *req.IsPaid)
	}
	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}
	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	err := query.
		Preload("Items").
		Order(s.buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// PayOrder records the payment confirmation for an order. A pending
// order moves to processing; any other status keeps the payment fields
// but leaves the status untouched.
func (s *Service) PayOrder(orderID, requesterID uint, isAdmin bool, req *PayOrderRequest) (*Order, error) {
	order, err := s.GetOrder(orderID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	historyMark := len(order.StatusHistory)
	order.MarkPaid(PaymentResult{
		TransactionID: req.TransactionID,
		Status:        req.Status,
		UpdateTime:    req.UpdateTime,
		EmailAddress:  req.EmailAddress,
	}, requesterID)

	updates := map[string]interface{}{
		"is_paid":                order.IsPaid,
		"paid_at":                order.PaidAt,
		"payment_transaction_id": order.PaymentResult.TransactionID,
		"payment_status":         order.PaymentResult.Status,
		"payment_update_time":    order.PaymentResult.UpdateTime,
		"payment_email_address":  order.PaymentResult.EmailAddress,
		"status":                 order.Status,
	}
	if err := s.db.Model(&Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if err := persistHistory(s.db, order.StatusHistory[historyMark:]); err != nil {
		return nil, err
	}

	return s.loadOrder(orderID)
}

// CancelOrder cancels an order and releases its reserved stock. Only
// pending and processing orders can be cancelled.
func (s *Service) CancelOrder(orderID, requesterID uint, isAdmin bool, reason string) (*Order, error) {
	order, err := s.GetOrder(orderID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s",
			apperrors.ErrInvalidTransition, order.Status)
	}

	note := "Order cancelled"
	if reason != "" {
		note = fmt.Sprintf("Order cancelled: %s", reason)
	}
	historyMark := len(order.StatusHistory)
	order.SetStatus(OrderStatusCancelled, note, requesterID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		inv := s.inventory.WithTx(tx)
		for _, item := range order.Items {
			if err := inv.Release(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Model(&Order{}).Where("id = ?", orderID).
			Update("status", order.Status).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		return persistHistory(tx, order.StatusHistory[historyMark:])
	})
	if err != nil {
		return nil, err
	}

	return s.loadOrder(orderID)
}

// UpdateOrderStatus is the admin status change. Any known status may be
// set directly; the lifecycle map only constrains customer actions.
func (s *Service) UpdateOrderStatus(orderID uint, req *UpdateStatusRequest, updatedBy uint) (*Order, error) {
	if !IsValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}

	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	historyMark := len(order.StatusHistory)

	// History records changes, not no-op writes
	if order.Status != req.Status {
		note := req.Note
		if note == "" {
			note = fmt.Sprintf("Status changed to %s", req.Status)
		}
		order.SetStatus(req.Status, note, updatedBy)
	}
	if req.TrackingNumber != "" {
		order.TrackingNumber = req.TrackingNumber
	}
	if req.Status == OrderStatusDelivered && !order.IsDelivered {
		order.MarkDelivered()
	}

	updates := map[string]interface{}{
		"status": order.Status,
	}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = order.TrackingNumber
	}
	if req.Status == OrderStatusDelivered {
		updates["is_delivered"] = order.IsDelivered
		updates["delivered_at"] = order.DeliveredAt
	}

	if err := s.db.Model(&Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := persistHistory(s.db, order.StatusHistory[historyMark:]); err != nil {
		return nil, err
	}

	return s.loadOrder(orderID)
}

// OrderStats aggregates the admin dashboard numbers
type OrderStats struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  int64           `json:"total_revenue"`
	AverageOrder  int64           `json:"average_order"`
	StatusCounts  []StatusCount   `json:"status_counts"`
	MonthlyTrends []MonthlyVolume `json:"monthly_trends"`
}

// StatusCount is the per-status order breakdown
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// MonthlyVolume is one month of order volume and revenue
type MonthlyVolume struct {
	Month   string `json:"month"` // YYYY-MM
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

// GetOrderStats computes the admin dashboard aggregates. Revenue only
// counts paid orders; trends cover the trailing twelve months.
func (s *Service) GetOrderStats() (*OrderStats, error) {
	stats := &OrderStats{}

	if err := s.db.Model(&Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var revenue struct {
		Total   int64
		Average int64
	}
	err := s.db.Model(&Order{}).
		Select("COALESCE(SUM(total_price), 0) AS total, COALESCE(AVG(total_price), 0) AS average").
		Where("is_paid = ?", true).
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	stats.TotalRevenue = revenue.Total
	stats.AverageOrder = revenue.Average

	err = s.db.Model(&Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&stats.StatusCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}

	since := time.Now().UTC().AddDate(0, -12, 0)
	err = s.db.Model(&Order{}).
		Select("TO_CHAR(created_at, 'YYYY-MM') AS month, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("created_at >= ?", since).
		Group("month").
		Order("month").
		Scan(&stats.MonthlyTrends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly trends: %w", err)
	}

	return stats, nil
}

// Private helper methods

func (s *Service) loadOrder(orderID uint) (*Order, error) {
	var order Order
	err := s.db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", apperrors.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// persistHistory writes the history entries the entity methods appended
// in memory.
func persistHistory(db *gorm.DB, entries []OrderStatusHistory) error {
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
	}
	return nil
}

// clearCartTx empties the user's cart inside the checkout transaction.
// A missing cart is fine; checkout does not require one.
func clearCartTx(tx *gorm.DB, userID uint) error {
	var c cart.Cart
	err := tx.Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load cart for checkout: %w", err)
	}

	if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to empty cart: %w", err)
	}
	err = tx.Model(&cart.Cart{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"total_items":  0,
		"total_amount": 0,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to reset cart totals: %w", err)
	}
	return nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"total_price":  true,
		"status":       true,
		"order_number": true,
	}
	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
