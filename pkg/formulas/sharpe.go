package formulas

import "math"

// SharpeRatio calculates the annualized Sharpe Ratio from daily returns.
//
// Sharpe Ratio Formula:
//
//	Sharpe = mean(Excess Returns) / stddev(Excess Returns)
//	Annualized: Sharpe × sqrt(TradingDays)
//
// where Excess Return = Daily Return - Daily Risk-free Rate and the daily
// risk-free rate is the annual rate divided by TradingDays.
//
// A zero excess-return standard deviation (including series with fewer than
// two returns) yields 0 rather than dividing by zero.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	dailyRf := riskFreeRate / TradingDays

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRf
	}

	excessStd := StdDev(excess)
	if excessStd == 0 {
		return 0
	}

	return Mean(excess) / excessStd * math.Sqrt(TradingDays)
}

// SortinoRatio calculates the annualized Sortino Ratio from daily returns.
//
// Sortino Ratio Formula:
//
//	Sortino = mean(Excess Returns) / stddev(Downside Returns)
//	Annualized: Sortino × sqrt(TradingDays)
//
// The numerator averages ALL excess returns; only the denominator is
// restricted to the strictly negative raw returns. A zero downside standard
// deviation (no losses, or fewer than two losing days) yields 0.
func SortinoRatio(returns []float64, riskFreeRate float64) float64 {
	dailyRf := riskFreeRate / TradingDays

	excess := make([]float64, len(returns))
	var downside []float64
	for i, r := range returns {
		excess[i] = r - dailyRf
		if r < 0 {
			downside = append(downside, r)
		}
	}

	downsideStd := StdDev(downside)
	if downsideStd == 0 {
		return 0
	}

	return Mean(excess) / downsideStd * math.Sqrt(TradingDays)
}
