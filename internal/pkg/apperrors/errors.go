// Package apperrors defines the error taxonomy shared by the domain
// services and the HTTP layer. Services wrap these sentinels with
// fmt.Errorf("%w: ...") and handlers map them back to status codes.
package apperrors

import "errors"

var (
	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnavailable indicates the product exists but is not purchasable.
	ErrUnavailable = errors.New("product is not available")

	// ErrInsufficientStock indicates the requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition indicates an illegal order status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized indicates the caller may not act on the resource.
	ErrUnauthorized = errors.New("not authorized")

	// ErrEmptyOrder indicates a checkout was attempted with no items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrMissingField indicates a required request field was absent.
	ErrMissingField = errors.New("missing required field")

	// ErrValidation indicates a request failed domain validation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("resource already exists")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err represents a stock or state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrInvalidTransition)
}
