package eventpublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase/mocks"
)

type capturePublisher struct {
	published []string
	failIDs   map[string]bool
}

func (p *capturePublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if p.failIDs[event.ID] {
		return errors.New("delivery failed")
	}
	p.published = append(p.published, event.ID)
	return nil
}

func TestEventPublisher_ProcessEvents(t *testing.T) {
	outboxRepo := mocks.NewMockOutboxRepository()
	_ = outboxRepo.Create(context.Background(), nil, &domain.OutboxEvent{
		ID:        "ev-1",
		EventType: domain.EventTypeTransferCompleted,
	})
	_ = outboxRepo.Create(context.Background(), nil, &domain.OutboxEvent{
		ID:        "ev-2",
		EventType: domain.EventTypeWalletCreated,
	})

	pub := &capturePublisher{}
	ep := NewEventPublisher(Config{
		OutboxRepo: outboxRepo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
	})

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected two published events, got %d", len(pub.published))
	}

	remaining, _ := outboxRepo.GetUnpublished(context.Background(), 10)
	if len(remaining) != 0 {
		t.Errorf("expected all events marked published, %d remaining", len(remaining))
	}
}

func TestEventPublisher_FailedDeliveryStaysUnpublished(t *testing.T) {
	outboxRepo := mocks.NewMockOutboxRepository()
	_ = outboxRepo.Create(context.Background(), nil, &domain.OutboxEvent{ID: "ev-1"})
	_ = outboxRepo.Create(context.Background(), nil, &domain.OutboxEvent{ID: "ev-2"})

	pub := &capturePublisher{failIDs: map[string]bool{"ev-1": true}}
	ep := NewEventPublisher(Config{
		OutboxRepo: outboxRepo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
	})

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining, _ := outboxRepo.GetUnpublished(context.Background(), 10)
	if len(remaining) != 1 || remaining[0].ID != "ev-1" {
		t.Errorf("expected ev-1 left for retry, got %+v", remaining)
	}
}

func TestEventPublisher_StartStopsOnCancel(t *testing.T) {
	ep := NewEventPublisher(Config{
		OutboxRepo: mocks.NewMockOutboxRepository(),
		Publisher:  &capturePublisher{},
		Logger:     zerolog.Nop(),
		Interval:   10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ep.Start(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisher_Publish(t *testing.T) {
	p := NewLogPublisher(zerolog.Nop())

	err := p.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "ev-1",
		EventType: domain.EventTypeTransferCompleted,
		Payload:   map[string]any{"transfer_id": "tr-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
