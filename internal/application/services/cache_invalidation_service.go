package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
)

// CacheInvalidationService drops cached catalog entries when any instance
// announces a catalog change on the event bus
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for catalog events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelCatalog)
	if err != nil {
		return fmt.Errorf("failed to subscribe to catalog events: %w", err)
	}

	s.started = true
	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.DomainEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.DomainEvent) {
	if event.Type != entities.EventCatalogChanged {
		return
	}
	collection, _ := event.Data["collection"].(string)
	if collection == "" {
		log.Warn().Str("event_id", event.ID).Msg("catalog event without collection")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.InvalidateCollection(ctx, collection); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("failed to invalidate catalog cache")
		return
	}
	log.Debug().Str("collection", collection).Str("event_id", event.ID).Msg("invalidated catalog cache")
}

// InvalidateCollection drops every cached entry of a catalog collection
func (s *CacheInvalidationService) InvalidateCollection(ctx context.Context, collection string) error {
	if err := s.cache.DeletePattern(ctx, providers.CatalogCachePattern(collection)); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", collection, err)
	}
	return nil
}
