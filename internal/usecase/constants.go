package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a settlement or status-change
	// transaction so a stalled writer cannot hold row locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// BalanceCacheTTL bounds staleness of the read-side balance cache. The
	// ledger fold stays the source of truth for every orchestration decision.
	BalanceCacheTTL = 30 * time.Second

	// EngineVersion is stamped into transfer metadata at creation time.
	EngineVersion = "custody-engine/1"
)
