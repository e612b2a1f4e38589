package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

func sampleMetrics() *domain.MetricsResult {
	beta := 1.12
	alpha := 0.021
	benchReturn := 0.18
	return &domain.MetricsResult{
		InitialValue:          10000,
		FinalValue:            12500,
		TotalReturn:           0.25,
		AnnualizedReturn:      0.12,
		Volatility:            0.18,
		SharpeRatio:           0.95,
		SortinoRatio:          1.4,
		MaxDrawdown:           -0.08,
		MaxDrawdownPeakDate:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		MaxDrawdownTroughDate: time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC),
		WinRate:               0.54,
		ProfitLossRatio:       1.1,
		Beta:                  &beta,
		Alpha:                 &alpha,
		BenchmarkReturn:       &benchReturn,
		Days:                  730,
		Years:                 2.0,
	}
}

func sampleHoldings() []domain.HoldingPerformance {
	rsi := 61.3
	return []domain.HoldingPerformance{
		{
			Ticker:           "AAPL",
			Name:             "Apple Inc.",
			Shares:           10,
			PurchasePrice:    150,
			CurrentPrice:     190,
			Invested:         1500,
			CurrentValue:     1900,
			GainLoss:         400,
			TotalReturn:      0.2667,
			AnnualizedReturn: 0.125,
			DaysHeld:         730,
			Weight:           0.6,
			RSI14:            &rsi,
		},
		{
			Ticker:           "MSFT",
			Name:             "Microsoft Corporation",
			Shares:           4,
			PurchasePrice:    250,
			CurrentPrice:     310,
			Invested:         1000,
			CurrentValue:     1240,
			GainLoss:         240,
			TotalReturn:      0.24,
			AnnualizedReturn: 0.113,
			DaysHeld:         730,
			Weight:           0.4,
		},
	}
}

func sampleHistory() domain.ValueSeries {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	values := []float64{10000, 10200, 9900, 10500, 10300, 10800, 11200, 11000,
		11400, 11800, 11500, 12000, 12200, 11900, 12500}
	history := make(domain.ValueSeries, len(values))
	for i, v := range values {
		history[i] = domain.ValuePoint{Date: start.AddDate(0, 0, i), Value: v}
	}
	return history
}

func TestConsoleSummaryContainsAllSections(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)
	console.PrintSummary(sampleMetrics(), sampleHoldings())

	out := buf.String()
	assert.Contains(t, out, "PORTFOLIO OVERVIEW")
	assert.Contains(t, out, "RETURNS")
	assert.Contains(t, out, "RISK METRICS")
	assert.Contains(t, out, "MARKET SENSITIVITY")
	assert.Contains(t, out, "INDIVIDUAL HOLDINGS")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "MSFT")
	assert.Contains(t, out, "10000.0000")
	assert.Contains(t, out, "12500.0000")
	assert.Contains(t, out, "25.0000%")
}

func TestConsoleSummaryWithoutBenchmark(t *testing.T) {
	m := sampleMetrics()
	m.Beta = nil
	m.Alpha = nil
	m.BenchmarkReturn = nil

	var buf bytes.Buffer
	NewConsole(&buf).PrintSummary(m, sampleHoldings())

	assert.NotContains(t, buf.String(), "MARKET SENSITIVITY")
}

func TestConsoleSummaryInfiniteProfitLossRatio(t *testing.T) {
	m := sampleMetrics()
	m.ProfitLossRatio = math.Inf(1)

	var buf bytes.Buffer
	NewConsole(&buf).PrintSummary(m, nil)

	assert.Contains(t, buf.String(), "inf (no losses)")
}

func TestChartsRenderAll(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCharts(dir, zerolog.Nop())
	require.NoError(t, err)

	benchmark := domain.PriceSeries{
		{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10000},
		{Date: time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC), Close: 10400},
		{Date: time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC), Close: 11800},
	}
	c.RenderAll(sampleHistory(), benchmark, "^IXIC", sampleHoldings(), 5)

	for _, name := range []string{
		ChartPortfolioValue, ChartDrawdown, ChartAllocation,
		ChartIndividual, ChartRollingReturns,
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestChartsRejectShortHistory(t *testing.T) {
	c, err := NewCharts(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	short := domain.ValueSeries{{Date: time.Now(), Value: 100}}
	assert.Error(t, c.PortfolioValue(short, nil, "^IXIC"))
	assert.Error(t, c.Drawdown(short))
	assert.Error(t, c.RollingReturns(sampleHistory(), 100))
	assert.Error(t, c.Allocation(nil))
}

func TestPDFGenerate(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPDF(dir, zerolog.Nop())
	require.NoError(t, err)

	chartDir := filepath.Join(dir, "charts")
	c, err := NewCharts(chartDir, zerolog.Nop())
	require.NoError(t, err)
	c.RenderAll(sampleHistory(), nil, "^IXIC", sampleHoldings(), 5)

	path, err := p.Generate(sampleMetrics(), sampleHoldings(), "^IXIC", chartDir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestPDFGenerateWithoutCharts(t *testing.T) {
	p, err := NewPDF(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	path, err := p.Generate(sampleMetrics(), sampleHoldings(), "^IXIC", "")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)
}
