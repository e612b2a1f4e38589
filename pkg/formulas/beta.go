package formulas

// Beta calculates the beta of a portfolio against the market.
//
//	Beta = Cov(Rp, Rm) / Var(Rm)
//
// Both slices must already be aligned sample-by-sample (same dates, in the
// same order). Mismatched lengths or a zero market variance yield 0.
func Beta(portfolioReturns, marketReturns []float64) float64 {
	if len(portfolioReturns) != len(marketReturns) {
		return 0
	}

	marketVariance := Variance(marketReturns)
	if marketVariance == 0 {
		return 0
	}

	return Covariance(portfolioReturns, marketReturns) / marketVariance
}

// Alpha calculates the portfolio's alpha: the actual annualized return minus
// the CAPM-implied expected return.
//
//	Alpha = Rp - [ Rf + Beta × (Rm - Rf) ]
//
// All rates are annualized decimals.
func Alpha(portfolioReturn, beta, marketReturn, riskFreeRate float64) float64 {
	expected := riskFreeRate + beta*(marketReturn-riskFreeRate)
	return portfolioReturn - expected
}
