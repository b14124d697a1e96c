package domain

import "time"

// Event types published for external settlement consumers (receipt rendering,
// notifications). Emitted through the transactional outbox.
const (
	EventTypeTransferCompleted  = "transfer.completed"
	EventTypeTransferFailed     = "transfer.failed"
	EventTypeOrderStatusChanged = "order.status_changed"
	EventTypeWalletCreated      = "wallet.created"
)

// Aggregate types
const (
	AggregateTypeTransfer = "transfer"
	AggregateTypeOrder    = "payment_order"
	AggregateTypeWallet   = "wallet"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and published asynchronously by the event publisher.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
