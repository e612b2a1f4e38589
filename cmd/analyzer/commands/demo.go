package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Analyze a built-in sample portfolio",
	Long: `Runs the full analysis against a small hard-coded portfolio of
AAPL, GOOGL and MSFT bought on 2023-01-01. Useful for trying the tool
without preparing a CSV file. Market data is still fetched live.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	purchased := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	p := domain.Portfolio{
		"AAPL":  {Ticker: "AAPL", Shares: 10, PurchasePrice: 150, PurchaseDate: purchased},
		"GOOGL": {Ticker: "GOOGL", Shares: 5, PurchasePrice: 100, PurchaseDate: purchased},
		"MSFT":  {Ticker: "MSFT", Shares: 80, PurchasePrice: 250, PurchaseDate: purchased},
	}
	log.Info().Int("holdings", len(p)).Msg("Running demo portfolio")

	return runAnalysis(cmd.Context(), cfg, log, p)
}
