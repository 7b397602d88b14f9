package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
)

// subscriberBuffer is the capacity of each subscriber channel. Events are
// dropped for a subscriber whose buffer is full.
const subscriberBuffer = 100

type subscriberSet map[chan *entities.DomainEvent]struct{}

// hub keeps the local subscribers of each channel. Both buses deliver
// through it; they differ only in where events come from.
type hub struct {
	mu       sync.RWMutex
	channels map[string]subscriberSet
	closed   bool
}

func newHub() *hub {
	return &hub{channels: make(map[string]subscriberSet)}
}

// add registers a subscriber. first is true when it is the only subscriber
// of channel. A closed hub hands out an already closed channel.
func (h *hub) add(channel string) (sub chan *entities.DomainEvent, first bool) {
	sub = make(chan *entities.DomainEvent, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub)
		return sub, false
	}
	set, ok := h.channels[channel]
	if !ok {
		set = make(subscriberSet)
		h.channels[channel] = set
	}
	set[sub] = struct{}{}
	return sub, len(set) == 1
}

// remove drops and closes sub. last is true when channel has no
// subscribers left.
func (h *hub) remove(channel string, sub chan *entities.DomainEvent) (last bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.channels[channel]
	if _, ok := set[sub]; !ok {
		return false
	}
	delete(set, sub)
	close(sub)
	if len(set) == 0 {
		delete(h.channels, channel)
		return true
	}
	return false
}

// dropChannel closes every subscriber of channel and reports whether there
// were any.
func (h *hub) dropChannel(channel string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.channels[channel]
	for sub := range set {
		close(sub)
	}
	delete(h.channels, channel)
	return ok
}

// closeAll closes every subscriber and refuses new ones. It returns the
// channels that had subscribers.
func (h *hub) closeAll() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	channels := make([]string, 0, len(h.channels))
	for channel, set := range h.channels {
		for sub := range set {
			close(sub)
		}
		channels = append(channels, channel)
	}
	h.channels = make(map[string]subscriberSet)
	h.closed = true
	return channels
}

// count returns the number of subscribers of channel
func (h *hub) count(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// deliver hands event to every subscriber of channel without blocking
func (h *hub) deliver(ctx context.Context, channel string, event *entities.DomainEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.channels[channel] {
		select {
		case sub <- event:
			delivered++
		default:
			log.Ctx(ctx).Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber channel full, dropping event")
		}
	}
	return delivered
}

// watch removes sub once ctx is done and calls onEmpty if it was the
// channel's last subscriber.
func (h *hub) watch(ctx context.Context, channel string, sub chan *entities.DomainEvent, onEmpty func()) {
	go func() {
		<-ctx.Done()
		if h.remove(channel, sub) && onEmpty != nil {
			onEmpty()
		}
	}()
}
