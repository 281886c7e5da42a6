package event

import (
	"context"
	"log/slog"
)

// NoopPublisher drops events. It is used when RabbitMQ is disabled.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", routingKeyCustomerCreated, "accountNo", event.Payload.AccountNo)
	return nil
}

func (p *NoopPublisher) PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", routingKeyCustomerDeleted, "accountNo", event.AccountNo)
	return nil
}

func (p *NoopPublisher) PublishCustomerCommented(ctx context.Context, event CustomerCommentedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", routingKeyCustomerCommented, "action", event.Action)
	return nil
}
