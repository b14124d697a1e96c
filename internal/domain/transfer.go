package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferKind identifies the rail a transfer moves value over.
type TransferKind string

const (
	TransferKindWalletToWallet         TransferKind = "wallet_to_wallet"
	TransferKindWalletToExternalCrypto TransferKind = "wallet_to_external_crypto"
	TransferKindWalletToExternalBank   TransferKind = "wallet_to_external_bank"
	TransferKindVirtualAccountToWallet TransferKind = "virtual_account_to_wallet"
)

var validTransferKinds = map[TransferKind]bool{
	TransferKindWalletToWallet:         true,
	TransferKindWalletToExternalCrypto: true,
	TransferKindWalletToExternalBank:   true,
	TransferKindVirtualAccountToWallet: true,
}

// IsValid checks if the kind is known.
func (k TransferKind) IsValid() bool {
	return validTransferKinds[k]
}

// Outbound reports whether the kind debits the owner's wallet. Inbound kinds
// skip the request-time balance check.
func (k TransferKind) Outbound() bool {
	return k != TransferKindVirtualAccountToWallet
}

// TransferPurpose classifies why a transfer happens, distinct from the rail.
type TransferPurpose string

const (
	TransferPurposeSupplierPayment  TransferPurpose = "supplier_payment"
	TransferPurposeClientWithdrawal TransferPurpose = "client_withdrawal"
	TransferPurposeInternalMove     TransferPurpose = "internal_move"
	TransferPurposeDeposit          TransferPurpose = "deposit"
)

var validTransferPurposes = map[TransferPurpose]bool{
	TransferPurposeSupplierPayment:  true,
	TransferPurposeClientWithdrawal: true,
	TransferPurposeInternalMove:     true,
	TransferPurposeDeposit:          true,
}

// IsValid checks if the purpose is known.
func (p TransferPurpose) IsValid() bool {
	return validTransferPurposes[p]
}

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s TransferStatus) Terminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusFailed
}

// Destination describes where value leaves to: a bank account, a crypto
// address or another wallet, depending on the transfer kind.
type Destination struct {
	Type       string
	Identifier string
}

// Transfer is an idempotent request to move value out of or into a wallet.
// It is created pending and only ever mutated through the audited
// status-transition path.
type Transfer struct {
	ID             string
	OwnerID        string
	IdempotencyKey string
	Kind           TransferKind
	Purpose        TransferPurpose
	Amount         decimal.Decimal
	Currency       string
	Destination    Destination
	Fee            decimal.Decimal
	Net            decimal.Decimal
	Rate           decimal.Decimal
	Status         TransferStatus
	Metadata       map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks a transfer request before any side effect.
func (t *Transfer) Validate() error {
	if t.OwnerID == "" || t.IdempotencyKey == "" {
		return ErrValidationFailed
	}
	if !t.Kind.IsValid() || !t.Purpose.IsValid() {
		return ErrValidationFailed
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// SettlementEntryType returns the ledger entry type posted when the transfer
// completes: a payout for outbound kinds, a deposit for inbound ones.
func (t *Transfer) SettlementEntryType() EntryType {
	if t.Kind.Outbound() {
		return EntryTypePayout
	}
	return EntryTypeDeposit
}
