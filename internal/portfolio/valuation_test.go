package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
}

func series(points ...domain.PricePoint) domain.PriceSeries {
	return domain.PriceSeries(points)
}

func TestValueHistoryTwoHoldings(t *testing.T) {
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 10, PurchasePrice: 100, PurchaseDate: day(1)},
		"BBB": {Ticker: "BBB", Shares: 5, PurchasePrice: 200, PurchaseDate: day(1)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(
			domain.PricePoint{Date: day(1), Close: 100},
			domain.PricePoint{Date: day(2), Close: 110},
		),
		"BBB": series(
			domain.PricePoint{Date: day(1), Close: 200},
			domain.PricePoint{Date: day(2), Close: 190},
		),
	}

	history := ValueHistory(p, prices)
	require.Len(t, history, 2)
	assert.Equal(t, day(1), history[0].Date)
	assert.InDelta(t, 10*100+5*200.0, history[0].Value, 1e-9)
	assert.InDelta(t, 10*110+5*190.0, history[1].Value, 1e-9)
}

func TestValueHistoryForwardFill(t *testing.T) {
	// AAA has no observation on day 2; its contribution there must carry
	// the day-1 close forward, not interpolate toward day 3 and not be 0.
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 2, PurchaseDate: day(1)},
		"BBB": {Ticker: "BBB", Shares: 1, PurchaseDate: day(1)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(
			domain.PricePoint{Date: day(1), Close: 50},
			domain.PricePoint{Date: day(3), Close: 70},
		),
		"BBB": series(
			domain.PricePoint{Date: day(1), Close: 10},
			domain.PricePoint{Date: day(2), Close: 11},
			domain.PricePoint{Date: day(3), Close: 12},
		),
	}

	history := ValueHistory(p, prices)
	require.Len(t, history, 3)
	assert.InDelta(t, 2*50+10.0, history[0].Value, 1e-9)
	assert.InDelta(t, 2*50+11.0, history[1].Value, 1e-9) // AAA carried at 50
	assert.InDelta(t, 2*70+12.0, history[2].Value, 1e-9)
}

func TestValueHistoryRespectsPurchaseDate(t *testing.T) {
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 1, PurchaseDate: day(1)},
		"BBB": {Ticker: "BBB", Shares: 1, PurchaseDate: day(3)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(
			domain.PricePoint{Date: day(1), Close: 100},
			domain.PricePoint{Date: day(2), Close: 100},
			domain.PricePoint{Date: day(3), Close: 100},
		),
		"BBB": series(
			domain.PricePoint{Date: day(1), Close: 500},
			domain.PricePoint{Date: day(2), Close: 500},
			domain.PricePoint{Date: day(3), Close: 500},
		),
	}

	history := ValueHistory(p, prices)
	require.Len(t, history, 3)
	// BBB only joins on its purchase date even though prices exist earlier.
	assert.InDelta(t, 100.0, history[0].Value, 1e-9)
	assert.InDelta(t, 100.0, history[1].Value, 1e-9)
	assert.InDelta(t, 600.0, history[2].Value, 1e-9)
}

func TestValueHistoryPurchaseAfterAllData(t *testing.T) {
	// A holding purchased after all available price dates never contributes.
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 1, PurchaseDate: day(10)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(
			domain.PricePoint{Date: day(1), Close: 100},
			domain.PricePoint{Date: day(2), Close: 110},
		),
	}

	history := ValueHistory(p, prices)
	assert.Empty(t, history)
}

func TestValueHistoryDropsEmptyDates(t *testing.T) {
	// Dates where no holding has started yet are excluded, not zero.
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 1, PurchaseDate: day(3)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(
			domain.PricePoint{Date: day(1), Close: 100},
			domain.PricePoint{Date: day(2), Close: 110},
			domain.PricePoint{Date: day(3), Close: 120},
			domain.PricePoint{Date: day(4), Close: 130},
		),
	}

	history := ValueHistory(p, prices)
	require.Len(t, history, 2)
	assert.Equal(t, day(3), history[0].Date)
	assert.InDelta(t, 120.0, history[0].Value, 1e-9)
}

func TestValueHistoryMissingSeriesSkipsHolding(t *testing.T) {
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 1, PurchaseDate: day(1)},
		"ZZZ": {Ticker: "ZZZ", Shares: 100, PurchaseDate: day(1)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(domain.PricePoint{Date: day(1), Close: 42}),
	}

	history := ValueHistory(p, prices)
	require.Len(t, history, 1)
	assert.InDelta(t, 42.0, history[0].Value, 1e-9)
}

func TestValueHistoryScaleInvariance(t *testing.T) {
	// Doubling the share count doubles every value but leaves the total
	// return of the series unchanged.
	prices := map[string]domain.PriceSeries{
		"AAA": series(
			domain.PricePoint{Date: day(1), Close: 100},
			domain.PricePoint{Date: day(2), Close: 120},
		),
	}
	single := domain.Portfolio{"AAA": {Ticker: "AAA", Shares: 10, PurchaseDate: day(1)}}
	double := domain.Portfolio{"AAA": {Ticker: "AAA", Shares: 20, PurchaseDate: day(1)}}

	h1 := ValueHistory(single, prices)
	h2 := ValueHistory(double, prices)
	require.Len(t, h1, 2)
	require.Len(t, h2, 2)

	r1 := h1[1].Value/h1[0].Value - 1
	r2 := h2[1].Value/h2[0].Value - 1
	assert.InDelta(t, r1, r2, 1e-12)
	assert.InDelta(t, 2*h1[0].Value, h2[0].Value, 1e-9)
}

func TestPerformances(t *testing.T) {
	now := day(31)
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 10, PurchasePrice: 100, PurchaseDate: day(1)},
		"BBB": {Ticker: "BBB", Shares: 5, PurchasePrice: 200, PurchaseDate: day(1)},
		"NOPRICE": {Ticker: "NOPRICE", Shares: 1, PurchasePrice: 1, PurchaseDate: day(1)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA":     series(domain.PricePoint{Date: day(1), Close: 100}),
		"BBB":     series(domain.PricePoint{Date: day(1), Close: 200}),
		"NOPRICE": series(domain.PricePoint{Date: day(1), Close: 1}),
	}
	current := map[string]float64{
		"AAA": 120, // +20%
		"BBB": 180, // -10%
	}
	infos := map[string]domain.StockInfo{
		"AAA": {Name: "Triple A Corp"},
	}

	finalValue := 10*120 + 5*180.0
	perfs := Performances(p, prices, current, infos, finalValue, now, 14)

	// NOPRICE has no current price and is excluded entirely.
	require.Len(t, perfs, 2)

	// Sorted by current value descending: AAA (1200) before BBB (900).
	assert.Equal(t, "AAA", perfs[0].Ticker)
	assert.Equal(t, "Triple A Corp", perfs[0].Name)
	assert.InDelta(t, 0.20, perfs[0].TotalReturn, 1e-12)
	assert.InDelta(t, 200.0, perfs[0].GainLoss, 1e-9)
	assert.Equal(t, 30, perfs[0].DaysHeld)
	assert.InDelta(t, 1200.0/finalValue, perfs[0].Weight, 1e-12)
	assert.Greater(t, perfs[0].AnnualizedReturn, perfs[0].TotalReturn)

	assert.Equal(t, "BBB", perfs[1].Ticker)
	assert.Equal(t, "BBB", perfs[1].Name) // no static info: falls back to ticker
	assert.InDelta(t, -0.10, perfs[1].TotalReturn, 1e-12)
	assert.InDelta(t, -100.0, perfs[1].GainLoss, 1e-9)
}

func TestPerformancesZeroFinalValue(t *testing.T) {
	p := domain.Portfolio{
		"AAA": {Ticker: "AAA", Shares: 10, PurchasePrice: 100, PurchaseDate: day(1)},
	}
	prices := map[string]domain.PriceSeries{
		"AAA": series(domain.PricePoint{Date: day(1), Close: 100}),
	}
	current := map[string]float64{"AAA": 120}

	perfs := Performances(p, prices, current, nil, 0, day(2), 14)
	require.Len(t, perfs, 1)
	assert.Equal(t, 0.0, perfs[0].Weight)
}
