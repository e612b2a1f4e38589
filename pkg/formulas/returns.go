package formulas

import "math"

// TotalReturn calculates the total return between an initial and a final value.
//
//	Total Return = Final / Initial - 1
//
// An initial value of 0 is undefined and yields NaN; callers must guard.
func TotalReturn(initialValue, finalValue float64) float64 {
	if initialValue == 0 {
		return math.NaN()
	}
	return finalValue/initialValue - 1
}

// AnnualizedReturn calculates the Compound Annual Growth Rate.
//
//	CAGR = (1 + Total Return)^(1 / Years) - 1
//
// A non-positive holding period yields 0.
func AnnualizedReturn(totalReturn, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}

// WinRate calculates the fraction of periods with a strictly positive return.
// An empty series yields 0.
func WinRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}

	return float64(wins) / float64(len(returns))
}

// ProfitLossRatio calculates the compounded total return divided by the sum
// of the absolute values of all negative periodic returns. A series with no
// losses yields +Inf: there was nothing at risk on the downside.
func ProfitLossRatio(returns []float64) float64 {
	compounded := 1.0
	loss := 0.0
	for _, r := range returns {
		compounded *= 1 + r
		if r < 0 {
			loss += -r
		}
	}

	if loss == 0 {
		return math.Inf(1)
	}

	return (compounded - 1) / loss
}
