package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/veltapay/custody/internal/adapter/http/dto"
	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

func TestTransferFromDomain(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	transfer := &domain.Transfer{
		ID:       "tr-1",
		OwnerID:  "client-1",
		Kind:     domain.TransferKindWalletToExternalBank,
		Purpose:  domain.TransferPurposeClientWithdrawal,
		Amount:   decimal.NewFromFloat(150.25),
		Currency: "USD",
		Fee:      decimal.NewFromFloat(2.25),
		Net:      decimal.NewFromInt(148),
		Status:   domain.TransferStatusPending,
		Destination: domain.Destination{
			Type:       "bank_account",
			Identifier: "DE89370400440532013000",
		},
		Metadata:  map[string]any{"channel": "api"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := dto.TransferFromDomain(transfer)

	assert.Equal(t, "tr-1", resp.ID)
	assert.Equal(t, "client-1", resp.OwnerID)
	assert.Equal(t, "wallet_to_external_bank", resp.Kind)
	assert.Equal(t, "client_withdrawal", resp.Purpose)
	assert.Equal(t, "150.25", resp.Amount)
	assert.Equal(t, "2.25", resp.Fee)
	assert.Equal(t, "148", resp.Net)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "bank_account", resp.Destination.Type)
	assert.Equal(t, "DE89370400440532013000", resp.Destination.Identifier)
	assert.Equal(t, now, resp.CreatedAt)
}

func TestTransfersFromDomain_Empty(t *testing.T) {
	resp := dto.TransfersFromDomain(nil)

	assert.NotNil(t, resp)
	assert.Len(t, resp, 0)
}

func TestOrderFromDomain(t *testing.T) {
	order := &domain.PaymentOrder{
		ID:                "ord-1",
		OwnerID:           "client-1",
		OrderType:         "international_payment",
		Rail:              "swift",
		OriginAmount:      decimal.NewFromInt(1000),
		OriginCurrency:    "USD",
		ConvertedAmount:   decimal.NewFromInt(920),
		ConvertedCurrency: "EUR",
		Rate:              decimal.NewFromFloat(0.92),
		TotalFee:          decimal.NewFromInt(15),
		Status:            domain.OrderStatusProcessing,
		BeneficiaryRef:    "ben-7",
		ProofRef:          "MT103-20260831-001",
	}

	resp := dto.OrderFromDomain(order)

	assert.Equal(t, "ord-1", resp.ID)
	assert.Equal(t, "swift", resp.Rail)
	assert.Equal(t, "1000", resp.OriginAmount)
	assert.Equal(t, "920", resp.ConvertedAmount)
	assert.Equal(t, "EUR", resp.ConvertedCurrency)
	assert.Equal(t, "0.92", resp.Rate)
	assert.Equal(t, "15", resp.TotalFee)
	assert.Equal(t, "processing", resp.Status)
	assert.Equal(t, "MT103-20260831-001", resp.ProofRef)
}

func TestEntryFromDomain(t *testing.T) {
	transferID := "tr-1"
	entry := &domain.Entry{
		ID:         "en-1",
		WalletID:   "wallet-1",
		Type:       domain.EntryTypePayout,
		Amount:     decimal.NewFromFloat(99.99),
		TransferID: &transferID,
	}

	resp := dto.EntryFromDomain(entry)

	assert.Equal(t, "en-1", resp.ID)
	assert.Equal(t, "payout", resp.Type)
	assert.Equal(t, "99.99", resp.Amount)
	if assert.NotNil(t, resp.TransferID) {
		assert.Equal(t, "tr-1", *resp.TransferID)
	}
}

func TestProfileFromDomain(t *testing.T) {
	profile := &domain.Profile{
		ID:      "pf-1",
		OwnerID: "client-1",
		Status:  domain.VerificationVerified,
	}

	resp := dto.ProfileFromDomain(profile)

	assert.Equal(t, "pf-1", resp.ID)
	assert.Equal(t, "verified", resp.Status)
}

func TestAuditLogFromDomain(t *testing.T) {
	log := &domain.AuditLog{
		ID:            "al-1",
		ActorID:       "staff-1",
		ActorRole:     domain.RoleStaff,
		Action:        domain.AuditActionChangeStatus,
		EntityTable:   "transfers",
		EntityID:      "tr-1",
		ChangedFields: []string{"status"},
		Previous:      map[string]any{"status": "pending"},
		New:           map[string]any{"status": "completed"},
		Reason:        "settlement confirmed",
		Source:        "api",
	}

	resp := dto.AuditLogFromDomain(log)

	assert.Equal(t, "al-1", resp.ID)
	assert.Equal(t, "staff", resp.ActorRole)
	assert.Equal(t, "change_status", resp.Action)
	assert.Equal(t, []string{"status"}, resp.ChangedFields)
	assert.Equal(t, map[string]any{"status": "pending"}, resp.Previous)
	assert.Equal(t, "settlement confirmed", resp.Reason)
}

func TestConsistencyFromReport(t *testing.T) {
	report := &usecase.Report{
		Consistent:      false,
		TotalDeposits:   decimal.NewFromInt(800),
		TotalPayouts:    decimal.NewFromInt(200),
		SumOfBalances:   decimal.NewFromInt(599),
		NegativeWallets: []string{"wallet-3"},
	}

	resp := dto.ConsistencyFromReport(report)

	assert.False(t, resp.Consistent)
	assert.Equal(t, "800", resp.TotalDeposits)
	assert.Equal(t, "200", resp.TotalPayouts)
	assert.Equal(t, "599", resp.SumOfBalances)
	assert.Equal(t, []string{"wallet-3"}, resp.NegativeWallets)
}
