package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/portfolio-analyzer/internal/analyzer"
	"github.com/aristath/portfolio-analyzer/internal/clients/yahoo"
	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
	"github.com/aristath/portfolio-analyzer/internal/marketdata"
	"github.com/aristath/portfolio-analyzer/internal/portfolio"
	"github.com/aristath/portfolio-analyzer/internal/report"
	"github.com/aristath/portfolio-analyzer/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <portfolio.csv>",
	Short: "Analyze a portfolio loaded from a CSV file",
	Long: `Loads holdings from a CSV file with columns
ticker, shares, purchase_price, purchase_date (any order, header required),
fetches market data, and prints the performance summary. Charts and a PDF
report are written to the output directory unless disabled.

Example:
  analyzer analyze portfolio.csv
  analyzer analyze portfolio.csv --benchmark ^GSPC --risk-free 0.045 --no-pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	// Analyze flags
	flagBenchmark string
	flagOutput    string
	flagRiskFree  float64
	flagNoCharts  bool
	flagNoPDF     bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&flagBenchmark, "benchmark", "", "benchmark index symbol (default from config, ^IXIC)")
	analyzeCmd.Flags().StringVar(&flagOutput, "output", "", "output directory for charts and reports")
	analyzeCmd.Flags().Float64Var(&flagRiskFree, "risk-free", -1, "annual risk-free rate, e.g. 0.03")
	analyzeCmd.Flags().BoolVar(&flagNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().BoolVar(&flagNoPDF, "no-pdf", false, "skip PDF report generation")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	loader := portfolio.NewLoader(log)
	p, err := loader.LoadCSV(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Failed to load portfolio")
		return err
	}

	return runAnalysis(cmd.Context(), cfg, log, p)
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	return cfg, log, nil
}

// runAnalysis executes the full pipeline for an already-loaded portfolio
// and renders every enabled output surface.
func runAnalysis(parent context.Context, cfg *config.Config, log zerolog.Logger, p domain.Portfolio) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	benchmark := cfg.Benchmark
	if flagBenchmark != "" {
		benchmark = flagBenchmark
	}
	outputDir := cfg.OutputDir
	if flagOutput != "" {
		outputDir = flagOutput
	}
	analysis := cfg.Analysis
	if flagRiskFree >= 0 {
		analysis.RiskFreeRate = flagRiskFree
	}

	client := yahoo.NewClient(log, cfg.HTTPRateRPS)
	provider := marketdata.NewCache(client, log)

	a := analyzer.New(p, benchmark, provider, analysis, log)
	metrics, err := a.Run(ctx)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoData) {
			log.Error().Msg("No market data could be fetched for any holding")
		} else {
			log.Error().Err(err).Msg("Analysis failed")
		}
		return err
	}

	holdings := a.HoldingPerformances()
	report.NewConsole(os.Stdout).PrintSummary(metrics, holdings)

	chartDir := ""
	if !flagNoCharts {
		charts, err := report.NewCharts(filepath.Join(outputDir, "charts"), log)
		if err != nil {
			return err
		}
		charts.RenderAll(a.ValueHistory(), a.BenchmarkSeries(), benchmark, holdings, analysis.RollingWindowDays)
		chartDir = charts.Dir()
	}

	if !flagNoPDF {
		pdf, err := report.NewPDF(filepath.Join(outputDir, "reports"), log)
		if err != nil {
			return err
		}
		if _, err := pdf.Generate(metrics, holdings, benchmark, chartDir); err != nil {
			return err
		}
	}

	return nil
}
