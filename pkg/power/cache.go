package power

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/solarmap/solarmap/internal/model"
)

// CachingProvider memoizes Monthly results keyed by rounded coordinate
// pair, so repeated assessments of the same rooftop skip the network.
// Negative results (ErrUnavailable) are not cached; a later call may
// succeed.
type CachingProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	irr      model.MonthlyIrradiance
	storedAt time.Time
}

// NewCachingProvider wraps a Provider with an in-memory TTL cache. A zero
// TTL means entries never expire.
func NewCachingProvider(inner Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// cacheKey rounds to ~1 km so marker nudges on the same roof hit the
// same entry.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// Monthly implements Provider.
func (p *CachingProvider) Monthly(ctx context.Context, lat, lon float64) (model.MonthlyIrradiance, error) {
	key := cacheKey(lat, lon)

	p.mu.Lock()
	entry, ok := p.entries[key]
	p.mu.Unlock()

	if ok && (p.ttl == 0 || time.Since(entry.storedAt) < p.ttl) {
		zap.L().Debug("power cache hit", zap.String("key", key))
		return entry.irr, nil
	}

	irr, err := p.inner.Monthly(ctx, lat, lon)
	if err != nil {
		return model.MonthlyIrradiance{}, err
	}

	p.mu.Lock()
	p.entries[key] = cacheEntry{irr: irr, storedAt: time.Now()}
	p.mu.Unlock()

	return irr, nil
}
