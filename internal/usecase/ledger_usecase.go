package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
)

// LedgerUseCase owns the append-only ledger: recording entries and deriving
// wallet balances by folding them. No update or delete path exists.
type LedgerUseCase struct {
	entryRepo  EntryRepository
	walletRepo WalletRepository
	cache      Cache
	idGen      IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase. Cache may be nil.
func NewLedgerUseCase(entryRepo EntryRepository, walletRepo WalletRepository, cache Cache, idGen IDGenerator) *LedgerUseCase {
	return &LedgerUseCase{
		entryRepo:  entryRepo,
		walletRepo: walletRepo,
		cache:      cache,
		idGen:      idGen,
	}
}

// RecordEntryInput represents input for appending a ledger entry.
type RecordEntryInput struct {
	WalletID    string
	Type        domain.EntryType
	Amount      decimal.Decimal
	TransferID  *string
	Description string
	Metadata    map[string]any
}

// RecordEntry appends a single entry. tx may be nil for standalone appends or
// a running transaction when the entry must commit with other writes.
func (uc *LedgerUseCase) RecordEntry(ctx context.Context, tx Transaction, input RecordEntryInput) (*domain.Entry, error) {
	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		WalletID:    input.WalletID,
		Type:        input.Type,
		Amount:      input.Amount,
		TransferID:  input.TransferID,
		Description: input.Description,
		Metadata:    input.Metadata,
		CreatedAt:   time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, input.WalletID)

	return entry, nil
}

// ComputeBalance folds all entries for the wallet: sum of deposits minus sum
// of payouts. A wallet with zero entries folds to zero.
func (uc *LedgerUseCase) ComputeBalance(ctx context.Context, walletID string) (decimal.Decimal, error) {
	return uc.entryRepo.SumByWallet(ctx, walletID)
}

// CachedBalance serves the read API. It folds on a cache miss and repairs the
// cache from the fold, never the reverse.
func (uc *LedgerUseCase) CachedBalance(ctx context.Context, walletID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(walletID)); err == nil {
			if balance, perr := decimal.NewFromString(cached); perr == nil {
				return balance, nil
			}
		}
	}

	balance, err := uc.entryRepo.SumByWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKey(walletID), balance.String(), BalanceCacheTTL)
	}

	return balance, nil
}

// BalanceAt folds entries created at or before the given time.
func (uc *LedgerUseCase) BalanceAt(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error) {
	return uc.entryRepo.SumByWalletAt(ctx, walletID, at)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListEntries returns entries for a wallet, newest first.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.entryRepo.ListByWallet(ctx, input.WalletID, limit, offset)
}

func (uc *LedgerUseCase) invalidateBalance(ctx context.Context, walletID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey(walletID))
	}
}

func balanceCacheKey(walletID string) string {
	return "balance:" + walletID
}
