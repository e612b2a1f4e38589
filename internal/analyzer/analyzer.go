package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
	"github.com/aristath/portfolio-analyzer/internal/marketdata"
	"github.com/aristath/portfolio-analyzer/internal/portfolio"
	"github.com/aristath/portfolio-analyzer/pkg/formulas"
)

// ErrNoData is returned when not a single holding produced usable market
// data, so there is nothing to analyze.
var ErrNoData = errors.New("no holdings with market data to analyze")

// maxConcurrentFetches bounds the per-ticker fetch fan-out.
const maxConcurrentFetches = 4

// State tracks the progress of one analysis run. Transitions are
// one-directional: Created → DataFetched → ValueHistoryComputed →
// MetricsComputed. A run produces exactly one metrics result.
type State int

const (
	Created State = iota
	DataFetched
	ValueHistoryComputed
	MetricsComputed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case DataFetched:
		return "data_fetched"
	case ValueHistoryComputed:
		return "value_history_computed"
	case MetricsComputed:
		return "metrics_computed"
	}
	return "unknown"
}

// Analyzer orchestrates one analysis run: fetch market data for every
// holding and the benchmark, merge the portfolio value history, then derive
// all performance and risk metrics.
type Analyzer struct {
	portfolio domain.Portfolio
	benchmark string
	provider  marketdata.Provider
	cfg       config.AnalysisConfig
	log       zerolog.Logger
	now       func() time.Time

	state State

	mu              sync.Mutex
	series          map[string]domain.PriceSeries
	currentPrices   map[string]float64
	stockInfo       map[string]domain.StockInfo
	benchmarkSeries domain.PriceSeries

	valueHistory domain.ValueSeries
	metrics      *domain.MetricsResult
}

// New creates an analyzer for one run. benchmark may be empty to skip the
// benchmark comparison entirely.
func New(p domain.Portfolio, benchmark string, provider marketdata.Provider, cfg config.AnalysisConfig, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		portfolio:     p,
		benchmark:     benchmark,
		provider:      provider,
		cfg:           cfg,
		log:           log.With().Str("component", "analyzer").Logger(),
		now:           time.Now,
		state:         Created,
		series:        make(map[string]domain.PriceSeries),
		currentPrices: make(map[string]float64),
		stockInfo:     make(map[string]domain.StockInfo),
	}
}

// Run executes the full pipeline and returns the metrics result.
func (a *Analyzer) Run(ctx context.Context) (*domain.MetricsResult, error) {
	if err := a.FetchAll(ctx); err != nil {
		return nil, err
	}
	if err := a.ComputeValueHistory(); err != nil {
		return nil, err
	}
	return a.ComputeMetrics()
}

// FetchAll obtains, for every holding, the price series from its purchase
// date until today plus the current price and static info, and the
// benchmark series from the earliest purchase date. Fetches run
// concurrently; a ticker whose fetch fails or comes back empty is logged
// and excluded from the rest of the run, never fatal. All fetches have
// settled when FetchAll returns.
func (a *Analyzer) FetchAll(ctx context.Context) error {
	if err := a.transition(Created, DataFetched); err != nil {
		return err
	}

	end := a.now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for ticker, holding := range a.portfolio {
		ticker, holding := ticker, holding
		g.Go(func() error {
			a.fetchHolding(ctx, ticker, holding, end)
			return nil
		})
	}

	if a.benchmark != "" {
		start := a.portfolio.EarliestPurchase()
		g.Go(func() error {
			series, err := a.provider.HistoricalPrices(ctx, a.benchmark, start, end)
			if err != nil {
				a.log.Warn().Err(err).Str("symbol", a.benchmark).Msg("Benchmark fetch failed, continuing without it")
				return nil
			}
			a.mu.Lock()
			a.benchmarkSeries = series
			a.mu.Unlock()
			return nil
		})
	}

	// Fetch goroutines never report errors; waiting only joins them.
	_ = g.Wait()

	a.log.Info().
		Int("holdings", len(a.series)).
		Int("benchmark_days", len(a.benchmarkSeries)).
		Msg("Data fetching complete")

	return nil
}

func (a *Analyzer) fetchHolding(ctx context.Context, ticker string, holding domain.Holding, end time.Time) {
	series, err := a.provider.HistoricalPrices(ctx, ticker, holding.PurchaseDate, end)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("Fetch failed, skipping holding")
		return
	}
	if len(series) == 0 {
		a.log.Warn().Str("ticker", ticker).Msg("No price data, skipping holding")
		return
	}

	price, err := a.provider.CurrentPrice(ctx, ticker)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("Current price unavailable")
	}

	info, err := a.provider.StockInfo(ctx, ticker)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("Stock info unavailable, using defaults")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.series[ticker] = series
	if price != nil {
		a.currentPrices[ticker] = *price
	}
	a.stockInfo[ticker] = info
}

// ComputeValueHistory merges the fetched per-holding series into the
// portfolio value series.
func (a *Analyzer) ComputeValueHistory() error {
	if err := a.transition(DataFetched, ValueHistoryComputed); err != nil {
		return err
	}

	a.valueHistory = portfolio.ValueHistory(a.portfolio, a.series)
	a.log.Info().Int("days", len(a.valueHistory)).Msg("Portfolio value history calculated")
	return nil
}

// ComputeMetrics derives all portfolio-level metrics from the value history
// and, when benchmark data is usable, the market-sensitivity metrics.
// Returns ErrNoData when the value history is empty.
func (a *Analyzer) ComputeMetrics() (*domain.MetricsResult, error) {
	if err := a.transition(ValueHistoryComputed, MetricsComputed); err != nil {
		return nil, err
	}

	if len(a.valueHistory) == 0 {
		return nil, ErrNoData
	}

	values := a.valueHistory.Values()
	returns := formulas.DailyReturns(values)

	initial := values[0]
	final := values[len(values)-1]

	first := a.valueHistory[0].Date
	last := a.valueHistory[len(a.valueHistory)-1].Date
	days := int(last.Sub(first).Hours() / 24)
	years := float64(days) / 365.25

	totalReturn := 0.0
	if initial != 0 {
		totalReturn = formulas.TotalReturn(initial, final)
	} else {
		a.log.Warn().Msg("Initial portfolio value is zero, total return undefined")
	}

	dd := formulas.MaxDrawdown(values)

	m := &domain.MetricsResult{
		InitialValue:          initial,
		FinalValue:            final,
		TotalReturn:           totalReturn,
		AnnualizedReturn:      formulas.AnnualizedReturn(totalReturn, years),
		Volatility:            formulas.Volatility(returns, true),
		SharpeRatio:           formulas.SharpeRatio(returns, a.cfg.RiskFreeRate),
		SortinoRatio:          formulas.SortinoRatio(returns, a.cfg.RiskFreeRate),
		MaxDrawdown:           dd.Value,
		MaxDrawdownPeakDate:   a.valueHistory[dd.PeakIndex].Date,
		MaxDrawdownTroughDate: a.valueHistory[dd.TroughIndex].Date,
		WinRate:               formulas.WinRate(returns),
		ProfitLossRatio:       formulas.ProfitLossRatio(returns),
		Days:                  days,
		Years:                 years,
	}

	a.applyBenchmark(m, years)

	a.metrics = m
	a.log.Info().Msg("Metrics calculation complete")
	return m, nil
}

// applyBenchmark fills Beta, Alpha and BenchmarkReturn when the benchmark
// series has at least two points; otherwise the three fields stay nil,
// which reporting layers render as unavailable rather than zero.
func (a *Analyzer) applyBenchmark(m *domain.MetricsResult, years float64) {
	if len(a.benchmarkSeries) < 2 {
		if a.benchmark != "" {
			a.log.Warn().Str("symbol", a.benchmark).Msg("Insufficient benchmark data, skipping beta/alpha")
		}
		return
	}

	closes := a.benchmarkSeries.Closes()

	portfolioAligned, marketAligned := alignReturns(a.valueHistory, a.benchmarkSeries)
	beta := formulas.Beta(portfolioAligned, marketAligned)

	benchmarkTotal := formulas.TotalReturn(closes[0], closes[len(closes)-1])
	benchmarkAnnualized := formulas.AnnualizedReturn(benchmarkTotal, years)

	alpha := formulas.Alpha(m.AnnualizedReturn, beta, benchmarkAnnualized, a.cfg.RiskFreeRate)

	m.Beta = &beta
	m.Alpha = &alpha
	m.BenchmarkReturn = &benchmarkAnnualized
}

// alignReturns inner-joins the portfolio and benchmark return series on
// date, dropping samples present in only one of the two.
func alignReturns(values domain.ValueSeries, benchmark domain.PriceSeries) (p, m []float64) {
	marketByDate := make(map[time.Time]float64, len(benchmark)-1)
	for i := 1; i < len(benchmark); i++ {
		if benchmark[i-1].Close != 0 {
			marketByDate[benchmark[i].Date] = benchmark[i].Close/benchmark[i-1].Close - 1
		}
	}

	for i := 1; i < len(values); i++ {
		marketReturn, ok := marketByDate[values[i].Date]
		if !ok {
			continue
		}
		if values[i-1].Value == 0 {
			continue
		}
		p = append(p, values[i].Value/values[i-1].Value-1)
		m = append(m, marketReturn)
	}

	return p, m
}

// HoldingPerformances computes the per-holding snapshot on demand. It may
// be called repeatedly; results are recomputed each time since current
// prices can be refreshed independently. Weights are zero until metrics
// have been computed.
func (a *Analyzer) HoldingPerformances() []domain.HoldingPerformance {
	finalValue := 0.0
	if a.metrics != nil {
		finalValue = a.metrics.FinalValue
	}
	return portfolio.Performances(a.portfolio, a.series, a.currentPrices, a.stockInfo, finalValue, a.now(), a.cfg.RSIPeriod)
}

// Metrics returns the computed result, nil before ComputeMetrics.
func (a *Analyzer) Metrics() *domain.MetricsResult {
	return a.metrics
}

// ValueHistory exposes the merged portfolio value series for charting.
func (a *Analyzer) ValueHistory() domain.ValueSeries {
	return a.valueHistory
}

// Series exposes the per-ticker price series for charting.
func (a *Analyzer) Series() map[string]domain.PriceSeries {
	return a.series
}

// BenchmarkSeries exposes the benchmark price series, possibly empty.
func (a *Analyzer) BenchmarkSeries() domain.PriceSeries {
	return a.benchmarkSeries
}

// StockInfo exposes the fetched static info per ticker.
func (a *Analyzer) StockInfo() map[string]domain.StockInfo {
	return a.stockInfo
}

func (a *Analyzer) transition(from, to State) error {
	if a.state != from {
		return fmt.Errorf("invalid state transition %s → %s (current state %s)", from, to, a.state)
	}
	a.state = to
	return nil
}
