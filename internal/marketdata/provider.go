package marketdata

import (
	"context"
	"time"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Provider supplies historical and current market data for one ticker at a
// time. Implementations fail soft on unknown tickers: HistoricalPrices
// returns an empty series rather than an error when the symbol simply has
// no data.
type Provider interface {
	// HistoricalPrices returns daily closes for [start, end], ascending,
	// without duplicate dates. May be empty.
	HistoricalPrices(ctx context.Context, symbol string, start, end time.Time) (domain.PriceSeries, error)

	// CurrentPrice returns the latest known price. nil means the price is
	// unavailable, which is not an error.
	CurrentPrice(ctx context.Context, symbol string) (*float64, error)

	// StockInfo returns static descriptive data with documented defaults:
	// the symbol itself for the name and "Unknown" for the other fields
	// when unavailable.
	StockInfo(ctx context.Context, symbol string) (domain.StockInfo, error)
}
