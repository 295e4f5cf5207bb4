package process

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"firestige.xyz/netproc/internal/log"
	"firestige.xyz/netproc/internal/metrics"
)

// DefaultTTL is how long a port keeps its owner without being seen again.
const DefaultTTL = 10 * time.Minute

// Map caches port ownership. Refreshes merge into the cache, so a port
// keeps its process after a short-lived socket closes until ttl passes.
type Map struct {
	resolver Resolver
	ttl      time.Duration
	entries  *cache.Cache

	mu          sync.RWMutex
	refreshedAt time.Time
}

// NewMap creates an empty Map backed by resolver. ttl <= 0 uses DefaultTTL.
func NewMap(resolver Resolver, ttl time.Duration) *Map {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Map{
		resolver: resolver,
		ttl:      ttl,
		entries:  cache.New(ttl, 2*ttl),
	}
}

// Refresh queries the resolver once and merges the result.
func (m *Map) Refresh(ctx context.Context) error {
	fresh, err := m.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	for port, info := range fresh {
		m.entries.Set(port, info, m.ttl)
	}

	m.mu.Lock()
	m.refreshedAt = time.Now()
	m.mu.Unlock()

	metrics.ProcessMapSize.Set(float64(m.entries.ItemCount()))
	return nil
}

// Run refreshes every interval until ctx is done. Failures are logged and
// the previous mapping is kept.
func (m *Map) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.GetLogger().WithError(err).Warn("process mapping refresh failed")
			}
		}
	}
}

// Lookup returns the process owning port.
func (m *Map) Lookup(port string) (Info, bool) {
	v, ok := m.entries.Get(port)
	if !ok {
		return Info{}, false
	}
	info, ok := v.(Info)
	return info, ok
}

// Len returns the number of mapped ports, possibly counting expired
// entries not yet cleaned up.
func (m *Map) Len() int {
	return m.entries.ItemCount()
}

// RefreshedAt returns the time of the last successful refresh.
func (m *Map) RefreshedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshedAt
}
