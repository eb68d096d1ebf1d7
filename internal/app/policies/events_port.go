package policies

import (
	"context"

	"stayhub/internal/domain/shared/events"
)

// EventPublisher pushes drained domain events to the broker. Publication is
// best-effort after the owning aggregate has been saved.
type EventPublisher interface {
	Publish(ctx context.Context, batch ...events.DomainEvent) error
}

// NopPublisher drops events; used when no broker is configured and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...events.DomainEvent) error { return nil }
