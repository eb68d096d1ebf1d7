package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stayhub/internal/domain/shared/events"
)

// EventPublisher serializes domain events and routes them to per-aggregate
// topics under a common prefix, e.g. stayhub.booking and stayhub.listing.
type EventPublisher struct {
	Producer    *Producer
	TopicPrefix string
}

type envelope struct {
	Event       string          `json:"event"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

func (p *EventPublisher) Publish(ctx context.Context, batch ...events.DomainEvent) error {
	for _, event := range batch {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("kafka: encode %s: %w", event.EventName(), err)
		}
		body, err := json.Marshal(envelope{
			Event:       event.EventName(),
			AggregateID: event.AggregateID(),
			OccurredAt:  event.OccurredAt(),
			Payload:     payload,
		})
		if err != nil {
			return fmt.Errorf("kafka: encode envelope %s: %w", event.EventName(), err)
		}
		headers := map[string]string{"event": event.EventName()}
		// Keying by aggregate keeps one aggregate's events in order.
		if err := p.Producer.Publish(ctx, p.topicFor(event), event.AggregateID(), body, headers); err != nil {
			return fmt.Errorf("kafka: publish %s: %w", event.EventName(), err)
		}
	}
	return nil
}

func (p *EventPublisher) topicFor(event events.DomainEvent) string {
	category, _, _ := strings.Cut(event.EventName(), ".")
	return p.TopicPrefix + "." + category
}
