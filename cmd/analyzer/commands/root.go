package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Buy-and-hold portfolio performance and risk analyzer",
	Long: `Portfolio Analyzer

Loads a buy-and-hold portfolio from a CSV file, fetches historical prices
from Yahoo Finance, and reports performance and risk metrics: total and
annualized return, volatility, Sharpe and Sortino ratios, maximum drawdown,
and beta/alpha against a benchmark index.

Examples:
  analyzer analyze portfolio.csv
  analyzer analyze portfolio.csv --benchmark ^GSPC --output ./reports
  analyzer demo`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")
}
