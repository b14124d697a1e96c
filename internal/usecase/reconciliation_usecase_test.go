package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
	"github.com/veltapay/custody/internal/usecase/mocks"
)

func TestReconciliationUseCase_CheckConsistency(t *testing.T) {
	seed := func(entryRepo *mocks.MockEntryRepository, walletRepo *mocks.MockWalletRepository, walletID string, deposits, payouts decimal.Decimal) {
		_ = walletRepo.Create(context.Background(), nil, &domain.Wallet{ID: walletID, OwnerID: "owner-" + walletID, Currency: "USD"})
		if deposits.IsPositive() {
			_ = entryRepo.Create(context.Background(), nil, &domain.Entry{
				ID: walletID + "-dep", WalletID: walletID, Type: domain.EntryTypeDeposit, Amount: deposits,
			})
		}
		if payouts.IsPositive() {
			_ = entryRepo.Create(context.Background(), nil, &domain.Entry{
				ID: walletID + "-pay", WalletID: walletID, Type: domain.EntryTypePayout, Amount: payouts,
			})
		}
	}

	t.Run("consistent ledger", func(t *testing.T) {
		entryRepo := mocks.NewMockEntryRepository()
		walletRepo := mocks.NewMockWalletRepository()
		ledgerRepo := mocks.NewMockLedgerRepository()

		seed(entryRepo, walletRepo, "w1", decimal.NewFromInt(500), decimal.NewFromInt(200))
		seed(entryRepo, walletRepo, "w2", decimal.NewFromInt(300), decimal.Zero)
		ledgerRepo.Deposits = decimal.NewFromInt(800)
		ledgerRepo.Payouts = decimal.NewFromInt(200)

		uc := usecase.NewReconciliationUseCase(ledgerRepo, walletRepo, entryRepo)
		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Consistent {
			t.Errorf("expected consistent report, got %+v", report)
		}
		if !report.SumOfBalances.Equal(decimal.NewFromInt(600)) {
			t.Errorf("expected sum 600, got %s", report.SumOfBalances)
		}
	})

	t.Run("global totals drift", func(t *testing.T) {
		entryRepo := mocks.NewMockEntryRepository()
		walletRepo := mocks.NewMockWalletRepository()
		ledgerRepo := mocks.NewMockLedgerRepository()

		seed(entryRepo, walletRepo, "w1", decimal.NewFromInt(500), decimal.Zero)
		// Totals claim more deposits than the wallets fold to.
		ledgerRepo.Deposits = decimal.NewFromInt(600)
		ledgerRepo.Payouts = decimal.Zero

		uc := usecase.NewReconciliationUseCase(ledgerRepo, walletRepo, entryRepo)
		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Consistent {
			t.Error("expected inconsistent report on drift")
		}
	})

	t.Run("negative wallet flagged", func(t *testing.T) {
		entryRepo := mocks.NewMockEntryRepository()
		walletRepo := mocks.NewMockWalletRepository()
		ledgerRepo := mocks.NewMockLedgerRepository()

		seed(entryRepo, walletRepo, "w1", decimal.NewFromInt(100), decimal.NewFromInt(150))
		ledgerRepo.Deposits = decimal.NewFromInt(100)
		ledgerRepo.Payouts = decimal.NewFromInt(150)

		uc := usecase.NewReconciliationUseCase(ledgerRepo, walletRepo, entryRepo)
		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Consistent {
			t.Error("a negative wallet must fail the check even when totals match")
		}
		if len(report.NegativeWallets) != 1 || report.NegativeWallets[0] != "w1" {
			t.Errorf("expected w1 flagged negative, got %v", report.NegativeWallets)
		}
	})

	t.Run("empty ledger is consistent", func(t *testing.T) {
		uc := usecase.NewReconciliationUseCase(
			mocks.NewMockLedgerRepository(),
			mocks.NewMockWalletRepository(),
			mocks.NewMockEntryRepository(),
		)
		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Consistent {
			t.Errorf("expected empty ledger consistent, got %+v", report)
		}
	})
}
