package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error
	FirstByOwnerFunc func(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Wallet, error)
	CountByOwnerFunc func(ctx context.Context, ownerID string) (int, error)
	ListFunc         func(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) FirstByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	if m.FirstByOwnerFunc != nil {
		return m.FirstByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var oldest *domain.Wallet
	for _, w := range m.wallets {
		if w.OwnerID != ownerID {
			continue
		}
		if oldest == nil || w.CreatedAt.Before(oldest.CreatedAt) {
			oldest = w
		}
	}
	if oldest == nil {
		return nil, domain.ErrWalletNotFound
	}
	return oldest, nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if m.CountByOwnerFunc != nil {
		return m.CountByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, w := range m.wallets {
		if w.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		wallets = append(wallets, w)
	}
	if offset >= len(wallets) {
		return nil, nil
	}
	wallets = wallets[offset:]
	if limit < len(wallets) {
		wallets = wallets[:limit]
	}
	return wallets, nil
}

// MockEntryRepository is a mock implementation of EntryRepository. The
// default behavior stores entries in memory and folds them on demand, which
// mirrors the derived-balance semantics the real store implements in SQL.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	SumByWalletFunc   func(ctx context.Context, walletID string) (decimal.Decimal, error)
	SumByWalletTxFunc func(ctx context.Context, tx usecase.Transaction, walletID string) (decimal.Decimal, error)
	SumByWalletAtFunc func(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error)
	ListByWalletFunc  func(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) fold(walletID string, cutoff *time.Time) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.WalletID != walletID {
			continue
		}
		if cutoff != nil && e.CreatedAt.After(*cutoff) {
			continue
		}
		sum = sum.Add(e.Signed())
	}
	return sum
}

func (m *MockEntryRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error) {
	if m.SumByWalletFunc != nil {
		return m.SumByWalletFunc(ctx, walletID)
	}
	return m.fold(walletID, nil), nil
}

func (m *MockEntryRepository) SumByWalletTx(ctx context.Context, tx usecase.Transaction, walletID string) (decimal.Decimal, error) {
	if m.SumByWalletTxFunc != nil {
		return m.SumByWalletTxFunc(ctx, tx, walletID)
	}
	return m.fold(walletID, nil), nil
}

func (m *MockEntryRepository) SumByWalletAt(ctx context.Context, walletID string, at time.Time) (decimal.Decimal, error) {
	if m.SumByWalletAtFunc != nil {
		return m.SumByWalletAtFunc(ctx, walletID, at)
	}
	return m.fold(walletID, &at), nil
}

func (m *MockEntryRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.WalletID == walletID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Entries returns all recorded entries.
func (m *MockEntryRepository) Entries() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockTransferRepository is a mock implementation of TransferRepository. The
// default Create enforces idempotency-key uniqueness per owner, the same
// arbiter role the unique constraint plays in the real store.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer
	byKey     map[string]string

	CreateFunc              func(ctx context.Context, transfer *domain.Transfer) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, ownerID, key string) (*domain.Transfer, error)
	UpdateStatusFunc        func(ctx context.Context, tx usecase.Transaction, id string, expected, next domain.TransferStatus, updatedAt time.Time) (bool, error)
	GetByIDTxFunc           func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error)
	ListFunc                func(ctx context.Context, filter usecase.TransferFilter) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
		byKey:     make(map[string]string),
	}
}

func keyIndex(ownerID, key string) string {
	return ownerID + "/" + key
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := keyIndex(transfer.OwnerID, transfer.IdempotencyKey)
	if _, exists := m.byKey[idx]; exists {
		return domain.ErrDuplicateIdempotency
	}
	m.transfers[transfer.ID] = transfer
	m.byKey[idx] = transfer.ID
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Transfer, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, ownerID, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byKey[keyIndex(ownerID, key)]; ok {
		return m.transfers[id], nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, expected, next domain.TransferStatus, updatedAt time.Time) (bool, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, expected, next, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[id]
	if !ok || t.Status != expected {
		return false, nil
	}
	t.Status = next
	t.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockTransferRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransferRepository) List(ctx context.Context, filter usecase.TransferFilter) ([]*domain.Transfer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if filter.OwnerID != "" && t.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.PaymentOrder

	CreateFunc           func(ctx context.Context, order *domain.PaymentOrder) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.PaymentOrder, error)
	GetByIDTxFunc        func(ctx context.Context, tx usecase.Transaction, id string) (*domain.PaymentOrder, error)
	UpdateTransitionFunc func(ctx context.Context, tx usecase.Transaction, order *domain.PaymentOrder, expected domain.OrderStatus) (bool, error)
	ListFunc             func(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.PaymentOrder),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.PaymentOrder, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockOrderRepository) UpdateTransition(ctx context.Context, tx usecase.Transaction, order *domain.PaymentOrder, expected domain.OrderStatus) (bool, error) {
	if m.UpdateTransitionFunc != nil {
		return m.UpdateTransitionFunc(ctx, tx, order, expected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	copied := *order
	m.orders[order.ID] = &copied
	return true, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter usecase.OrderFilter) ([]*domain.PaymentOrder, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []*domain.PaymentOrder
	for _, o := range m.orders {
		if filter.OwnerID != "" && o.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Rail != "" && o.Rail != filter.Rail {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// MockFeeConfigRepository is a mock implementation of FeeConfigRepository.
type MockFeeConfigRepository struct {
	mu      sync.RWMutex
	configs map[domain.FeePurpose]*domain.FeeConfig

	GetByPurposeFunc func(ctx context.Context, purpose domain.FeePurpose) (*domain.FeeConfig, error)
	UpsertFunc       func(ctx context.Context, cfg *domain.FeeConfig) error
}

func NewMockFeeConfigRepository() *MockFeeConfigRepository {
	return &MockFeeConfigRepository{
		configs: make(map[domain.FeePurpose]*domain.FeeConfig),
	}
}

func (m *MockFeeConfigRepository) GetByPurpose(ctx context.Context, purpose domain.FeePurpose) (*domain.FeeConfig, error) {
	if m.GetByPurposeFunc != nil {
		return m.GetByPurposeFunc(ctx, purpose)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Absent config means no fee, not an error.
	return m.configs[purpose], nil
}

func (m *MockFeeConfigRepository) Upsert(ctx context.Context, cfg *domain.FeeConfig) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, cfg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.Purpose] = cfg
	return nil
}

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile

	GetByOwnerFunc   func(ctx context.Context, ownerID string) (*domain.Profile, error)
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, ownerID string, status domain.VerificationStatus, updatedAt time.Time) error
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]*domain.Profile),
	}
}

// Seed stores a profile keyed by owner.
func (m *MockProfileRepository) Seed(profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.OwnerID] = profile
}

func (m *MockProfileRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if m.GetByOwnerFunc != nil {
		return m.GetByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[ownerID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockProfileRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, ownerID string, status domain.VerificationStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, ownerID, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[ownerID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.Status = status
	p.UpdatedAt = updatedAt
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter usecase.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter usecase.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if filter.EntityTable != "" && l.EntityTable != filter.EntityTable {
			continue
		}
		if filter.EntityID != "" && l.EntityID != filter.EntityID {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// Logs returns all recorded audit entries.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published {
			continue
		}
		events = append(events, e)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

// Events returns all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	Deposits decimal.Decimal
	Payouts  decimal.Decimal

	TotalsFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		Deposits: decimal.Zero,
		Payouts:  decimal.Zero,
	}
}

func (m *MockLedgerRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx)
	}
	return m.Deposits, m.Payouts, nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
