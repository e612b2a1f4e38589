package formulas

// Drawdown represents the result of a maximum drawdown calculation.
// Value is the most negative drawdown observed (e.g. -0.25 for a 25% loss
// from peak). PeakIndex and TroughIndex point into the price series that was
// analyzed: the trough is the bottom of the worst decline, the peak is the
// running maximum immediately preceding that trough.
type Drawdown struct {
	Value       float64
	PeakIndex   int
	TroughIndex int
}

// MaxDrawdown calculates the maximum drawdown of a price series.
//
// The series is first converted to a compounded cumulative return curve
// starting at 1.0, so a decline from the very first price counts. For each
// point the drawdown is measured against the running maximum of that curve:
//
//	Drawdown(t) = Cumulative(t) / RunningMax(t) - 1
//
// The reported peak is the running maximum at or before the trough, not the
// global maximum of the whole series. A series with fewer than two prices,
// or one that never declines, yields a zero drawdown with peak and trough
// both at the first index.
func MaxDrawdown(prices []float64) Drawdown {
	if len(prices) < 2 {
		return Drawdown{}
	}

	returns := DailyReturns(prices)

	cumulative := 1.0
	runningMax := 1.0
	runningMaxIdx := 0

	dd := Drawdown{}
	for i, r := range returns {
		cumulative *= 1 + r
		if cumulative > runningMax {
			runningMax = cumulative
			runningMaxIdx = i + 1
		}

		drawdown := cumulative/runningMax - 1
		if drawdown < dd.Value {
			dd.Value = drawdown
			dd.TroughIndex = i + 1
			dd.PeakIndex = runningMaxIdx
		}
	}

	return dd
}
