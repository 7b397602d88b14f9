package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/infrastructure/observability"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryAdapter is an in-process CacheProvider used when Redis is disabled
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	metrics *observability.Metrics

	stop chan struct{}
	once sync.Once
}

// NewMemoryAdapter creates an in-process cache. A janitor goroutine drops
// expired entries every sweepInterval until Close is called.
func NewMemoryAdapter(sweepInterval time.Duration, metrics *observability.Metrics) *MemoryAdapter {
	a := &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		metrics: metrics,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go a.janitor(sweepInterval)
	}
	return a
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

func (a *MemoryAdapter) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			now := a.now()
			a.mu.Lock()
			for k, e := range a.entries {
				if e.expired(now) {
					delete(a.entries, k)
				}
			}
			a.mu.Unlock()
		}
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	e, ok := a.entries[key]
	a.mu.RUnlock()
	if !ok || e.expired(a.now()) {
		observability.RecordCacheMiss(ctx, a.metrics, "memory")
		return nil, providers.ErrCacheMiss
	}
	observability.RecordCacheHit(ctx, a.metrics, "memory")
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value. A non-positive expiration keeps it until deleted.
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if expirationSeconds > 0 {
		e.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.mu.Lock()
	a.entries[key] = e
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// DeletePattern removes keys matching a glob pattern
func (a *MemoryAdapter) DeletePattern(ctx context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for k := range a.entries {
		if ok, _ := path.Match(pattern, k); ok {
			delete(a.entries, k)
		}
	}
	return nil
}

// Exists checks if a live key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	e, ok := a.entries[key]
	a.mu.RUnlock()
	return ok && !e.expired(a.now()), nil
}

// Close stops the janitor
func (a *MemoryAdapter) Close() error {
	a.once.Do(func() { close(a.stop) })
	return nil
}
