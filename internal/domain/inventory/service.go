// internal/domain/inventory/service.go
package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// Service guards the stock ledger. All stock mutations in the system go
// through Reserve and Release so oversell cannot happen under
// concurrent checkouts.
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithTx returns a copy of the service bound to the given transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx}
}

// Available checks whether the requested quantity can be fulfilled
// without mutating stock. Returns the product on success.
func (s *Service) Available(productID uint, quantity int) (*product.Product, error) {
	var prod product.Product
	if err := s.db.Where("id = ?", productID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if !prod.IsActive {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnavailable, prod.Name)
	}
	if prod.Stock < quantity {
		return nil, fmt.Errorf("%w: %s has %d left", apperrors.ErrInsufficientStock, prod.Name, prod.Stock)
	}
	return &prod, nil
}

// Reserve atomically decrements stock for the given product. The
// decrement only happens when the product is active and has enough
// stock, so concurrent reservations can never push stock negative.
func (s *Service) Reserve(productID uint, quantity int) error {
	result := s.db.Model(&product.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", productID, true, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.classifyFailure(productID, quantity)
	}
	return nil
}

// Release returns previously reserved stock to the ledger. The
// increment is unconditional so cancelled orders always restore what
// they took, even for products deactivated in the meantime.
func (s *Service) Release(productID uint, quantity int) error {
	result := s.db.Model(&product.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to release stock for product %d: %w", productID, result.Error)
	}
	return nil
}

// classifyFailure figures out why a conditional reserve matched no
// rows. The follow-up read is best effort; under heavy contention the
// reported reason may already be stale, but the reserve itself stays
// correct.
func (s *Service) classifyFailure(productID uint, quantity int) error {
	var prod product.Product
	if err := s.db.Where("id = ?", productID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
		}
		return fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if !prod.IsActive {
		return fmt.Errorf("%w: %s", apperrors.ErrUnavailable, prod.Name)
	}
	return fmt.Errorf("%w: %s has %d left, requested %d",
		apperrors.ErrInsufficientStock, prod.Name, prod.Stock, quantity)
}
