package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeType selects how a fee config value is applied to an amount.
type FeeType string

const (
	FeeTypeFixed      FeeType = "fixed"
	FeeTypePercentage FeeType = "percentage"
)

// FeePurpose keys a fee config. One active value per key; changing it affects
// only future calculations.
type FeePurpose string

const (
	FeePurposeSupplierPayment  FeePurpose = "supplier_payment"
	FeePurposeClientWithdrawal FeePurpose = "client_withdrawal"
)

// FeeConfig is a single active fee rule for a purpose.
type FeeConfig struct {
	ID        string
	Purpose   FeePurpose
	Type      FeeType
	Value     decimal.Decimal
	UpdatedAt time.Time
}

// CalculateFee applies a fee config to an amount. A nil config means no fee is
// configured for the purpose yet and yields zero, so fee rollout can be staged
// purpose by purpose without breaking callers.
func CalculateFee(amount decimal.Decimal, cfg *FeeConfig) decimal.Decimal {
	if cfg == nil {
		return decimal.Zero
	}

	switch cfg.Type {
	case FeeTypeFixed:
		return cfg.Value
	case FeeTypePercentage:
		return amount.Mul(cfg.Value).Div(decimal.NewFromInt(100))
	default:
		return decimal.Zero
	}
}

// FeePurposeFor maps a transfer's business purpose to the fee purpose charged
// for it. Only supplier payments and client withdrawals carry a fee today.
func FeePurposeFor(purpose TransferPurpose) (FeePurpose, bool) {
	switch purpose {
	case TransferPurposeSupplierPayment:
		return FeePurposeSupplierPayment, true
	case TransferPurposeClientWithdrawal:
		return FeePurposeClientWithdrawal, true
	default:
		return "", false
	}
}
