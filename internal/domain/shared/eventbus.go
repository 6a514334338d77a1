package shared

import "context"

// EventPublisher is the side of the bus application services see:
// they publish an aggregate's buffered events after a successful save.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes published domain events. EventTypes narrows
// what the handler receives; empty means every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventBus is the full bus contract: publishing plus handler
// registration
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}
