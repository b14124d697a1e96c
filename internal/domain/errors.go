package domain

import "errors"

var (
	// Lookup errors
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrOrderNotFound    = errors.New("payment order not found")

	// Eligibility and balance errors
	ErrNotVerified       = errors.New("owner is not verified")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// State machine errors
	ErrInvalidTransition = errors.New("invalid status transition")

	// Authorization errors
	ErrUnauthorized = errors.New("role lacks permission for this action")

	// Input errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidAmount    = errors.New("amount must be positive")

	// Concurrency errors
	ErrConflict             = errors.New("concurrent update detected")
	ErrDuplicateIdempotency = errors.New("idempotency key already exists")
)

// Authentication errors surfaced by the token middleware.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
