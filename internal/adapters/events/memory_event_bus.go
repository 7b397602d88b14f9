package events

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
)

// MemoryEventBus is an in-process EventBus used when Redis is disabled
type MemoryEventBus struct {
	hub *hub
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{hub: newHub()}
}

// Publish delivers event to every current subscriber of channel
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	b.hub.deliver(ctx, channel, event)
	return nil
}

// Subscribe registers a subscriber until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	sub, _ := b.hub.add(channel)
	b.hub.watch(ctx, channel, sub, nil)
	return sub, nil
}

// Unsubscribe drops every subscriber of channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.hub.dropChannel(channel)
	return nil
}

// Close drops all subscribers
func (b *MemoryEventBus) Close() error {
	b.hub.closeAll()
	return nil
}
