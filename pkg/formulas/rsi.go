package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSI calculates the current Relative Strength Index from closing prices.
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Returns nil when there are fewer than length+1 closes or the indicator is
// not defined for the final bar.
func RSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

func isNaN(f float64) bool {
	return f != f
}
