package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// Cache TTLs (in seconds)
const (
	catalogItemTTL = 600
	catalogListTTL = 300
)

func catalogItemKey(collection string, id int64) string {
	return fmt.Sprintf("catalog:%s:item:%d", collection, id)
}

func catalogListKey(collection string, page pagination.Page) string {
	page = page.Normalize()
	return fmt.Sprintf("catalog:%s:list:%d:%d", collection, page.Number, page.Size)
}

type cachedCatalogPage[T any] struct {
	Items []*T  `json:"items"`
	Count int64 `json:"count"`
}

// CachedCatalogAdapter wraps a CatalogRepository with read-through caching.
// Writes drop every cached key of the collection.
type CachedCatalogAdapter[T repositories.CatalogItem] struct {
	adapter    repositories.CatalogRepository[T]
	cache      providers.CacheProvider
	collection string
}

// NewCachedCatalogAdapter creates a caching decorator for collection
func NewCachedCatalogAdapter[T repositories.CatalogItem](adapter repositories.CatalogRepository[T], cache providers.CacheProvider, collection string) repositories.CatalogRepository[T] {
	return &CachedCatalogAdapter[T]{
		adapter:    adapter,
		cache:      cache,
		collection: collection,
	}
}

func (a *CachedCatalogAdapter[T]) store(ctx context.Context, key string, v interface{}, ttl int) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache catalog entry")
	}
}

// GetByID retrieves an item with caching
func (a *CachedCatalogAdapter[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	key := catalogItemKey(a.collection, id)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		item := new(T)
		if err := json.Unmarshal(cached, item); err == nil {
			return item, nil
		}
		log.Ctx(ctx).Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}

	item, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.store(ctx, key, item, catalogItemTTL)
	return item, nil
}

// List lists items with caching per page
func (a *CachedCatalogAdapter[T]) List(ctx context.Context, page pagination.Page) ([]*T, int64, error) {
	key := catalogListKey(a.collection, page)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var p cachedCatalogPage[T]
		if err := json.Unmarshal(cached, &p); err == nil {
			return p.Items, p.Count, nil
		}
	}

	items, count, err := a.adapter.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	a.store(ctx, key, cachedCatalogPage[T]{Items: items, Count: count}, catalogListTTL)
	return items, count, nil
}

// Create creates an item and invalidates the collection
func (a *CachedCatalogAdapter[T]) Create(ctx context.Context, item *T) error {
	if err := a.adapter.Create(ctx, item); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Update updates an item and invalidates the collection
func (a *CachedCatalogAdapter[T]) Update(ctx context.Context, item *T) error {
	if err := a.adapter.Update(ctx, item); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Delete deletes an item and invalidates the collection
func (a *CachedCatalogAdapter[T]) Delete(ctx context.Context, id int64) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

func (a *CachedCatalogAdapter[T]) invalidate(ctx context.Context) {
	if err := a.cache.DeletePattern(ctx, providers.CatalogCachePattern(a.collection)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("collection", a.collection).Msg("failed to invalidate catalog cache")
	}
}
