package domain

import "time"

// Wallet is the custodial balance container for a verified client. Balance is
// never stored on the row: it is derived by folding ledger entries.
type Wallet struct {
	ID        string
	OwnerID   string
	Currency  string
	CreatedAt time.Time
}

// Profile carries the verification state the orchestrator consults before any
// financial action. It is owned by the external onboarding subsystem; the core
// only reads it and flips it to verified on approval.
type Profile struct {
	ID        string
	OwnerID   string
	Status    VerificationStatus
	UpdatedAt time.Time
	CreatedAt time.Time
}

// VerificationStatus is the owner's KYC outcome.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// IsVerified reports whether the owner may move money.
func (s VerificationStatus) IsVerified() bool {
	return s == VerificationVerified
}
