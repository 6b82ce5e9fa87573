package services

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP
// statuses with errors.Is; details are attached by wrapping with %w.
var (
	// ErrForbidden means the principal lacks the role or ownership the
	// operation requires. Never retried, never partially applied.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input is malformed or violates a
	// constraint.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyCart means order placement was attempted with no cart
	// lines. No order is created.
	ErrEmptyCart = errors.New("cart is empty")
)
