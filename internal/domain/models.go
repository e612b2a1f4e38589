package domain

import "time"

// Holding is a single buy-and-hold lot: a quantity of one ticker acquired at
// a known price on a known date. Holdings are immutable once loaded.
type Holding struct {
	Ticker        string    `json:"ticker"`
	Shares        float64   `json:"shares"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

// Invested returns the capital originally put into this lot.
func (h Holding) Invested() float64 {
	return h.Shares * h.PurchasePrice
}

// Portfolio maps ticker symbols to holdings. One lot per ticker: inserting a
// ticker that already exists replaces the previous lot.
type Portfolio map[string]Holding

// EarliestPurchase returns the first purchase date across all holdings.
// The zero time is returned for an empty portfolio.
func (p Portfolio) EarliestPurchase() time.Time {
	var earliest time.Time
	for _, h := range p {
		if earliest.IsZero() || h.PurchaseDate.Before(earliest) {
			earliest = h.PurchaseDate
		}
	}
	return earliest
}

// PricePoint is a single daily close for one ticker.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered sequence of daily closes, dates strictly
// increasing, no duplicates. Treated as immutable once fetched.
type PriceSeries []PricePoint

// Closes returns the closing prices in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// CloseAtOrBefore returns the most recent close at or before date,
// last observation carried forward. It never interpolates and never looks
// ahead. The second return is false when no observation qualifies.
func (s PriceSeries) CloseAtOrBefore(date time.Time) (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Date.After(date) {
			return s[i].Close, true
		}
	}
	return 0, false
}

// ValuePoint is the total portfolio value on a single date.
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ValueSeries is the portfolio value over time, ascending by date.
type ValueSeries []ValuePoint

// Values returns the portfolio values in date order.
func (s ValueSeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// StockInfo is static descriptive data about one ticker.
type StockInfo struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Currency string `json:"currency"`
}

// MetricsResult is the snapshot of all portfolio-level metrics for one
// analysis run. It is populated exactly once by the analyzer and read-only
// afterward. Beta, Alpha and BenchmarkReturn are nil when no benchmark data
// was available, which is distinct from a value of zero.
type MetricsResult struct {
	InitialValue     float64 `json:"initial_value"`
	FinalValue       float64 `json:"final_value"`
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`

	MaxDrawdown           float64   `json:"max_drawdown"`
	MaxDrawdownPeakDate   time.Time `json:"max_dd_peak_date"`
	MaxDrawdownTroughDate time.Time `json:"max_dd_trough_date"`

	WinRate         float64 `json:"win_rate"`
	ProfitLossRatio float64 `json:"profit_loss_ratio"`

	Beta            *float64 `json:"beta,omitempty"`
	Alpha           *float64 `json:"alpha,omitempty"`
	BenchmarkReturn *float64 `json:"benchmark_return,omitempty"`

	Days  int     `json:"days"`
	Years float64 `json:"years"`
}

// HoldingPerformance is the derived performance record for one holding.
// It is recomputed on demand rather than cached, since the current price
// may be refreshed independently of the value history.
type HoldingPerformance struct {
	Ticker           string   `json:"ticker"`
	Name             string   `json:"name"`
	Shares           float64  `json:"shares"`
	PurchasePrice    float64  `json:"purchase_price"`
	CurrentPrice     float64  `json:"current_price"`
	Invested         float64  `json:"invested"`
	CurrentValue     float64  `json:"current_value"`
	GainLoss         float64  `json:"gain_loss"`
	TotalReturn      float64  `json:"total_return"`
	AnnualizedReturn float64  `json:"annualized_return"`
	DaysHeld         int      `json:"days_held"`
	Weight           float64  `json:"weight"`
	RSI14            *float64 `json:"rsi_14,omitempty"`
}
