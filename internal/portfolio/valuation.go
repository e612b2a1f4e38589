package portfolio

import (
	"sort"
	"time"

	"github.com/aristath/portfolio-analyzer/internal/domain"
	"github.com/aristath/portfolio-analyzer/pkg/formulas"
)

// ValueHistory merges per-holding price series into a single portfolio value
// series.
//
// The date grid is the union of all dates appearing in any holding's series.
// For each date, every holding purchased on or before that date contributes
// shares × close, where the close is the exact observation for that date if
// present, otherwise the most recent one before it (last observation carried
// forward). A holding with no observation at or before the date is skipped
// for that date. Dates where no holding contributes at all are dropped, so
// the series starts at the first date any holding has both started and has
// price data.
func ValueHistory(p domain.Portfolio, series map[string]domain.PriceSeries) domain.ValueSeries {
	dateSet := make(map[time.Time]struct{})
	for _, s := range series {
		for _, point := range s {
			dateSet[point.Date] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	values := make(domain.ValueSeries, 0, len(dates))
	for _, date := range dates {
		total := 0.0
		contributing := 0

		for ticker, holding := range p {
			s, ok := series[ticker]
			if !ok {
				continue
			}
			if date.Before(holding.PurchaseDate) {
				continue
			}

			price, ok := s.CloseAtOrBefore(date)
			if !ok {
				continue
			}

			total += holding.Shares * price
			contributing++
		}

		if contributing == 0 {
			continue
		}
		values = append(values, domain.ValuePoint{Date: date, Value: total})
	}

	return values
}

// Performances computes the on-demand performance snapshot for every holding
// that has both price history and a current price. Holdings are returned
// sorted by current value, largest first.
//
// finalValue is the last portfolio value from the metrics result; a zero
// final value yields zero weights. now anchors the holding-period clock.
func Performances(
	p domain.Portfolio,
	series map[string]domain.PriceSeries,
	currentPrices map[string]float64,
	infos map[string]domain.StockInfo,
	finalValue float64,
	now time.Time,
	rsiPeriod int,
) []domain.HoldingPerformance {
	performances := make([]domain.HoldingPerformance, 0, len(p))

	for ticker, holding := range p {
		if _, ok := series[ticker]; !ok {
			continue
		}
		currentPrice, ok := currentPrices[ticker]
		if !ok {
			continue
		}

		invested := holding.Invested()
		currentValue := holding.Shares * currentPrice

		totalReturn := 0.0
		if invested != 0 {
			totalReturn = currentValue/invested - 1
		}

		daysHeld := int(now.Sub(holding.PurchaseDate).Hours() / 24)
		yearsHeld := float64(daysHeld) / 365.25
		annualized := formulas.AnnualizedReturn(totalReturn, yearsHeld)

		weight := 0.0
		if finalValue > 0 {
			weight = currentValue / finalValue
		}

		perf := domain.HoldingPerformance{
			Ticker:           ticker,
			Name:             infos[ticker].Name,
			Shares:           holding.Shares,
			PurchasePrice:    holding.PurchasePrice,
			CurrentPrice:     currentPrice,
			Invested:         invested,
			CurrentValue:     currentValue,
			GainLoss:         currentValue - invested,
			TotalReturn:      totalReturn,
			AnnualizedReturn: annualized,
			DaysHeld:         daysHeld,
			Weight:           weight,
			RSI14:            formulas.RSI(series[ticker].Closes(), rsiPeriod),
		}
		if perf.Name == "" {
			perf.Name = ticker
		}

		performances = append(performances, perf)
	}

	sort.Slice(performances, func(i, j int) bool {
		return performances[i].CurrentValue > performances[j].CurrentValue
	})

	return performances
}
