package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDays is the number of trading days per year used for annualization.
const TradingDays = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values.
// Fewer than two samples yield 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values.
// Fewer than two samples yield 0.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Covariance calculates the sample covariance between two equal-length datasets
func Covariance(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// DailyReturns converts a price series to periodic percentage returns.
// Returns[i] = Price[i+1]/Price[i] - 1, so the result is one element
// shorter than the input. Fewer than two prices yield an empty slice.
func DailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = prices[i]/prices[i-1] - 1
		}
	}

	return returns
}

// Volatility calculates the standard deviation of periodic returns.
// When annualize is true the result is scaled by sqrt(TradingDays),
// assuming daily returns.
func Volatility(returns []float64, annualize bool) float64 {
	vol := StdDev(returns)
	if annualize {
		vol *= math.Sqrt(TradingDays)
	}
	return vol
}
