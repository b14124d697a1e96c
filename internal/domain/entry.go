package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the signed effect of a ledger entry on the wallet balance.
type EntryType string

const (
	EntryTypeDeposit EntryType = "deposit"
	EntryTypePayout  EntryType = "payout"
)

// IsValid checks if the entry type is known.
func (t EntryType) IsValid() bool {
	return t == EntryTypeDeposit || t == EntryTypePayout
}

// Entry is an immutable, append-only record of a single value movement.
// Corrections are made by inserting offsetting entries, never by editing.
type Entry struct {
	ID          string
	WalletID    string
	Type        EntryType
	Amount      decimal.Decimal
	TransferID  *string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// Validate checks the entry before it is appended.
func (e *Entry) Validate() error {
	if !e.Type.IsValid() {
		return ErrValidationFailed
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// Signed returns the entry amount with the sign its type implies.
func (e *Entry) Signed() decimal.Decimal {
	if e.Type == EntryTypePayout {
		return e.Amount.Neg()
	}
	return e.Amount
}
