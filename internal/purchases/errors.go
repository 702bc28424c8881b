package purchases

import "errors"

var (
	// ErrPurchaseNotFound is returned when the referenced purchase does not exist.
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrPurchaseClosed is returned when a participant tries to change their
	// items after the creator closed the order.
	ErrPurchaseClosed = errors.New("purchase closed for change by creator")

	// ErrAlreadySubmitted is returned when the creator submits an order twice.
	ErrAlreadySubmitted = errors.New("order is already submitted")

	// ErrAccessDenied is returned when someone other than the creator tries
	// to submit the order, or a non-participant acts on a purchase.
	ErrAccessDenied = errors.New("access denied")

	// ErrEmptyOrder is returned when an order is submitted and no participant
	// picked a single item.
	ErrEmptyOrder = errors.New("order is empty")

	// ErrNegativePrice is returned when a submitted item carries a negative
	// line total.
	ErrNegativePrice = errors.New("item price must not be negative")
)
