package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Cache wraps a Provider with an in-memory cache of historical series keyed
// by (symbol, start, end). It is safe for concurrent use: lookups take a
// read lock and population is last-writer-wins, which is acceptable because
// results for the same key are deterministic. Current prices and stock info
// are not cached; they are cheap and may be refreshed independently.
//
// A Cache lives for one process at most. It is constructed explicitly and
// injected so tests can substitute a fake provider underneath.
type Cache struct {
	provider Provider
	log      zerolog.Logger

	mu     sync.RWMutex
	series map[string]domain.PriceSeries
}

// NewCache creates a caching wrapper around provider.
func NewCache(provider Provider, log zerolog.Logger) *Cache {
	return &Cache{
		provider: provider,
		log:      log.With().Str("component", "marketdata_cache").Logger(),
		series:   make(map[string]domain.PriceSeries),
	}
}

// HistoricalPrices returns the cached series for (symbol, start, end) or
// fetches and stores it.
func (c *Cache) HistoricalPrices(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error) {
	key := cacheKey(symbol, start, end)

	c.mu.RLock()
	cached, ok := c.series[key]
	c.mu.RUnlock()
	if ok {
		c.log.Debug().Str("symbol", symbol).Msg("Using cached price series")
		return cached, nil
	}

	series, err := c.provider.HistoricalPrices(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.series[key] = series
	c.mu.Unlock()

	return series, nil
}

// CurrentPrice delegates to the underlying provider.
func (c *Cache) CurrentPrice(ctx context.Context, symbol string) (*float64, error) {
	return c.provider.CurrentPrice(ctx, symbol)
}

// StockInfo delegates to the underlying provider.
func (c *Cache) StockInfo(ctx context.Context, symbol string) (domain.StockInfo, error) {
	return c.provider.StockInfo(ctx, symbol)
}

func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s", symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
}
