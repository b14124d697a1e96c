package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
)

// LedgerRepository defines ledger-wide aggregate queries.
type LedgerRepository interface {
	// Totals returns the global sum of deposit and payout amounts.
	Totals(ctx context.Context) (deposits, payouts decimal.Decimal, err error)
}

// WalletBalance pairs a wallet with its derived balance.
type WalletBalance struct {
	Wallet  *domain.Wallet
	Balance decimal.Decimal
}

// ReconciliationUseCase verifies that the derived state is internally
// consistent: the sum of every wallet's fold must equal global deposits minus
// global payouts, and no wallet may fold negative.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	walletRepo WalletRepository
	entryRepo  EntryRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(ledgerRepo LedgerRepository, walletRepo WalletRepository, entryRepo EntryRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
	}
}

// Report summarizes a consistency check.
type Report struct {
	Consistent      bool
	TotalDeposits   decimal.Decimal
	TotalPayouts    decimal.Decimal
	SumOfBalances   decimal.Decimal
	NegativeWallets []string
}

// CheckConsistency folds every wallet and compares the sum against the global
// entry totals.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*Report, error) {
	deposits, payouts, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalDeposits: deposits,
		TotalPayouts:  payouts,
		SumOfBalances: decimal.Zero,
	}

	offset := 0
	for {
		wallets, err := uc.walletRepo.List(ctx, domain.MaxPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(wallets) == 0 {
			break
		}

		for _, w := range wallets {
			balance, err := uc.entryRepo.SumByWallet(ctx, w.ID)
			if err != nil {
				return nil, err
			}
			report.SumOfBalances = report.SumOfBalances.Add(balance)
			if balance.IsNegative() {
				report.NegativeWallets = append(report.NegativeWallets, w.ID)
			}
		}

		offset += len(wallets)
	}

	report.Consistent = report.SumOfBalances.Equal(deposits.Sub(payouts)) && len(report.NegativeWallets) == 0

	return report, nil
}
