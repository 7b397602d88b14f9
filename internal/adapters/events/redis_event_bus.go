package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	redisclient "github.com/zatekoja/hospital-management/internal/infrastructure/clients/redis"
)

// RedisEventBus carries domain events between API instances over Redis
// Pub/Sub. All channels share one Pub/Sub connection; a channel is
// subscribed on Redis while it has at least one local subscriber.
type RedisEventBus struct {
	client *redisclient.Client
	hub    *hub

	mu     sync.Mutex
	pubsub *redis.PubSub

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		hub:    newHub(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish sends event to every instance subscribed to channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	receivers, err := b.client.Client().Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	log.Ctx(ctx).Debug().
		Str("channel", channel).
		Str("event_type", string(event.Type)).
		Int64("resource_id", event.ResourceID).
		Int64("receivers", receivers).
		Msg("published event")
	return nil
}

// Subscribe returns a channel of events published on channel. It is closed
// when ctx is done, on Unsubscribe or on Close.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	sub, first := b.hub.add(channel)
	if first {
		if err := b.listen(channel); err != nil {
			b.hub.remove(channel, sub)
			return nil, err
		}
	}
	b.hub.watch(ctx, channel, sub, func() { b.unlisten(channel) })
	return sub, nil
}

// Unsubscribe closes every local subscriber of channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	if b.hub.dropChannel(channel) {
		b.unlisten(channel)
	}
	return nil
}

// Close stops receiving and closes all subscribers
func (b *RedisEventBus) Close() error {
	b.cancel()
	channels := b.hub.closeAll()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubsub == nil {
		return nil
	}
	err := b.pubsub.Close()
	b.pubsub = nil
	if err != nil {
		return fmt.Errorf("failed to close event bus: %w", err)
	}
	log.Info().Strs("channels", channels).Msg("event bus closed")
	return nil
}

// listen subscribes the shared connection to channel, opening it and
// starting the receive loop on first use.
func (b *RedisEventBus) listen(channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx.Err() != nil {
		return fmt.Errorf("event bus is closed")
	}
	if b.pubsub == nil {
		b.pubsub = b.client.Client().Subscribe(b.ctx, channel)
		go b.receive(b.pubsub.Channel())
	} else if err := b.pubsub.Subscribe(b.ctx, channel); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	log.Info().Str("channel", channel).Msg("subscribed to channel")
	return nil
}

// unlisten drops the Redis subscription for channel unless a subscriber
// joined in the meantime.
func (b *RedisEventBus) unlisten(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pubsub == nil || b.hub.count(channel) > 0 {
		return
	}
	if err := b.pubsub.Unsubscribe(context.Background(), channel); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to unsubscribe from channel")
		return
	}
	log.Info().Str("channel", channel).Msg("unsubscribed from channel")
}

func (b *RedisEventBus) receive(messages <-chan *redis.Message) {
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			b.dispatch(msg)
		}
	}
}

// dispatch decodes msg and hands it to the local subscribers of its channel
func (b *RedisEventBus) dispatch(msg *redis.Message) int {
	var event entities.DomainEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping undecodable event")
		return 0
	}
	return b.hub.deliver(b.ctx, msg.Channel, &event)
}
