package domain

import "errors"

var (
	ErrInvalidDeliveryMethod = errors.New("delivery method must be one of: pickup, delivery")
	ErrInvalidStatus         = errors.New("status must be one of: new, preparing, ready, completed")
	ErrInvalidPaymentStatus  = errors.New("payment status must be one of: paid, not_paid")

	ErrNoProductSelected = errors.New("no product selected")
	ErrInvalidQuantity   = errors.New("enter a valid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotFound      = errors.New("order item not found")
	ErrEmptyOrder        = errors.New("order must contain at least 1 item")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

// IsValidation reports whether err is a business rule violation rather than
// an infrastructure failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidDeliveryMethod, ErrInvalidStatus, ErrInvalidPaymentStatus,
		ErrNoProductSelected, ErrInvalidQuantity, ErrInsufficientStock,
		ErrItemNotFound, ErrEmptyOrder,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err refers to a missing order or product.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrProductNotFound)
}
