package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// WarmTarget is one cache the warming service keeps populated
type WarmTarget struct {
	Name string
	Warm func(ctx context.Context) error
}

// CatalogWarmTarget reads the first page of a cached catalog collection so
// that the list and its items are served from cache afterwards
func CatalogWarmTarget[T repositories.CatalogItem](collection string, repo repositories.CatalogRepository[T]) WarmTarget {
	return WarmTarget{
		Name: collection,
		Warm: func(ctx context.Context) error {
			items, _, err := repo.List(ctx, pagination.Default())
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", collection, err)
			}
			log.Ctx(ctx).Debug().Str("collection", collection).Int("items", len(items)).Msg("warmed catalog cache")
			return nil
		},
	}
}

// CacheWarmingService refills frequently read caches after they expire or
// are invalidated
type CacheWarmingService struct {
	targets []WarmTarget
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(targets ...WarmTarget) *CacheWarmingService {
	return &CacheWarmingService{targets: targets}
}

// WarmCache warms every target. Failures are logged and the remaining
// targets are still warmed; the number of failed targets is returned.
func (s *CacheWarmingService) WarmCache(ctx context.Context) int {
	failed := 0
	for _, target := range s.targets {
		if err := target.Warm(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("target", target.Name).Msg("cache warming failed")
			failed++
		}
	}
	return failed
}

// StartPeriodicWarming warms once, then again every interval until ctx is
// done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	s.WarmCache(ctx)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stopping cache warming service")
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
	log.Info().Dur("interval", interval).Int("targets", len(s.targets)).Msg("started periodic cache warming")
}
