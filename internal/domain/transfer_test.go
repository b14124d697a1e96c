package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransfer_Validate(t *testing.T) {
	valid := func() *Transfer {
		return &Transfer{
			OwnerID:        "owner-1",
			IdempotencyKey: "key-1",
			Kind:           TransferKindWalletToExternalBank,
			Purpose:        TransferPurposeSupplierPayment,
			Amount:         decimal.NewFromInt(100),
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Transfer)
		errorType error
	}{
		{
			name:   "valid transfer",
			mutate: func(tr *Transfer) {},
		},
		{
			name:      "missing owner",
			mutate:    func(tr *Transfer) { tr.OwnerID = "" },
			errorType: ErrValidationFailed,
		},
		{
			name:      "missing idempotency key",
			mutate:    func(tr *Transfer) { tr.IdempotencyKey = "" },
			errorType: ErrValidationFailed,
		},
		{
			name:      "unknown kind",
			mutate:    func(tr *Transfer) { tr.Kind = "wire" },
			errorType: ErrValidationFailed,
		},
		{
			name:      "unknown purpose",
			mutate:    func(tr *Transfer) { tr.Purpose = "gift" },
			errorType: ErrValidationFailed,
		},
		{
			name:      "zero amount",
			mutate:    func(tr *Transfer) { tr.Amount = decimal.Zero },
			errorType: ErrInvalidAmount,
		},
		{
			name:      "negative amount",
			mutate:    func(tr *Transfer) { tr.Amount = decimal.NewFromInt(-5) },
			errorType: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := valid()
			tt.mutate(tr)

			err := tr.Validate()

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTransferKind_Outbound(t *testing.T) {
	outbound := []TransferKind{
		TransferKindWalletToWallet,
		TransferKindWalletToExternalCrypto,
		TransferKindWalletToExternalBank,
	}
	for _, k := range outbound {
		if !k.Outbound() {
			t.Errorf("expected %s outbound", k)
		}
	}
	if TransferKindVirtualAccountToWallet.Outbound() {
		t.Error("virtual_account_to_wallet must be inbound")
	}
}

func TestTransfer_SettlementEntryType(t *testing.T) {
	out := &Transfer{Kind: TransferKindWalletToExternalBank}
	if out.SettlementEntryType() != EntryTypePayout {
		t.Errorf("expected payout for outbound kind, got %s", out.SettlementEntryType())
	}

	in := &Transfer{Kind: TransferKindVirtualAccountToWallet}
	if in.SettlementEntryType() != EntryTypeDeposit {
		t.Errorf("expected deposit for inbound kind, got %s", in.SettlementEntryType())
	}
}

func TestTransferStatus_Terminal(t *testing.T) {
	if TransferStatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !TransferStatusCompleted.Terminal() || !TransferStatusFailed.Terminal() {
		t.Error("completed and failed must be terminal")
	}
}
