package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	charts "github.com/vicanso/go-charts/v2"

	"github.com/aristath/portfolio-analyzer/internal/domain"
	"github.com/aristath/portfolio-analyzer/pkg/formulas"
)

const (
	chartWidth  = 1200
	chartHeight = 600
)

// Chart file names, also referenced by the PDF report.
const (
	ChartPortfolioValue = "portfolio_value.png"
	ChartDrawdown       = "drawdown.png"
	ChartAllocation     = "allocation.png"
	ChartIndividual     = "individual_performance.png"
	ChartRollingReturns = "rolling_returns.png"
)

// Charts renders the analysis as PNG files in a directory.
type Charts struct {
	dir string
	log zerolog.Logger
}

// NewCharts creates a chart renderer writing into dir, creating it when
// missing.
func NewCharts(dir string, log zerolog.Logger) (*Charts, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}
	return &Charts{
		dir: dir,
		log: log.With().Str("component", "charts").Logger(),
	}, nil
}

// Dir returns the directory charts are written to.
func (c *Charts) Dir() string {
	return c.dir
}

// RenderAll produces the full chart set. Charts that cannot be rendered
// (for example the allocation pie with no priced holdings) are skipped with
// a warning, never fatal.
func (c *Charts) RenderAll(
	history domain.ValueSeries,
	benchmark domain.PriceSeries,
	benchmarkLabel string,
	holdings []domain.HoldingPerformance,
	rollingWindow int,
) {
	render := func(name string, fn func() error) {
		if err := fn(); err != nil {
			c.log.Warn().Err(err).Str("chart", name).Msg("Chart rendering failed")
			return
		}
		c.log.Info().Str("path", filepath.Join(c.dir, name)).Msg("Chart saved")
	}

	render(ChartPortfolioValue, func() error { return c.PortfolioValue(history, benchmark, benchmarkLabel) })
	render(ChartDrawdown, func() error { return c.Drawdown(history) })
	render(ChartAllocation, func() error { return c.Allocation(holdings) })
	render(ChartIndividual, func() error { return c.IndividualPerformance(holdings) })
	render(ChartRollingReturns, func() error { return c.RollingReturns(history, rollingWindow) })
}

// PortfolioValue draws the portfolio value over time. When benchmark data
// is present it is normalized to start at the portfolio's initial value so
// both lines share a scale.
func (c *Charts) PortfolioValue(history domain.ValueSeries, benchmark domain.PriceSeries, benchmarkLabel string) error {
	if len(history) < 2 {
		return fmt.Errorf("not enough data points")
	}

	values := [][]float64{history.Values()}
	legend := []string{"Portfolio"}

	if len(benchmark) > 0 && benchmark[0].Close != 0 {
		scale := history[0].Value / benchmark[0].Close
		normalized := make([]float64, 0, len(history))
		// Sample the benchmark on the portfolio's own date grid so the
		// two series stay the same length.
		for _, point := range history {
			if close, ok := benchmark.CloseAtOrBefore(point.Date); ok {
				normalized = append(normalized, close*scale)
			} else {
				normalized = append(normalized, charts.GetNullValue())
			}
		}
		values = append(values, normalized)
		legend = append(legend, benchmarkLabel)
	}

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc("Portfolio Value Over Time"),
		charts.LegendOptionFunc(charts.LegendOption{Data: legend, Top: charts.PositionTop}),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        dateLabels(history),
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 10,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return err
	}
	return c.write(ChartPortfolioValue, painter)
}

// Drawdown draws the decline from the running peak over time.
func (c *Charts) Drawdown(history domain.ValueSeries) error {
	if len(history) < 2 || history[0].Value == 0 {
		return fmt.Errorf("not enough data points")
	}

	drawdowns := make([]float64, len(history))
	runningMax := history[0].Value
	for i, point := range history {
		if point.Value > runningMax {
			runningMax = point.Value
		}
		drawdowns[i] = (point.Value/runningMax - 1) * 100
	}

	painter, err := charts.LineRender([][]float64{drawdowns},
		charts.TitleTextOptionFunc("Portfolio Drawdown Over Time (%)"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        dateLabels(history),
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 10,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return err
	}
	return c.write(ChartDrawdown, painter)
}

// Allocation draws current portfolio weights as a pie chart.
func (c *Charts) Allocation(holdings []domain.HoldingPerformance) error {
	if len(holdings) == 0 {
		return fmt.Errorf("no priced holdings")
	}

	values := make([]float64, len(holdings))
	labels := make([]string, len(holdings))
	for i, h := range holdings {
		values[i] = h.CurrentValue
		labels[i] = fmt.Sprintf("%s ($%.0f)", h.Ticker, h.CurrentValue)
	}

	painter, err := charts.PieRender(values,
		charts.TitleTextOptionFunc("Portfolio Allocation"),
		charts.LegendOptionFunc(charts.LegendOption{Data: labels, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return err
	}
	return c.write(ChartAllocation, painter)
}

// IndividualPerformance draws total return per holding as a bar chart,
// with an annualized-return series alongside for the risk/time dimension.
func (c *Charts) IndividualPerformance(holdings []domain.HoldingPerformance) error {
	if len(holdings) == 0 {
		return fmt.Errorf("no priced holdings")
	}

	total := make([]float64, len(holdings))
	annualized := make([]float64, len(holdings))
	tickers := make([]string, len(holdings))
	for i, h := range holdings {
		total[i] = h.TotalReturn * 100
		annualized[i] = h.AnnualizedReturn * 100
		tickers[i] = h.Ticker
	}

	painter, err := charts.BarRender([][]float64{total, annualized},
		charts.TitleTextOptionFunc("Individual Holdings Performance (%)"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Total Return", "Annualized Return"},
			Top:  charts.PositionTop,
		}),
		charts.XAxisDataOptionFunc(tickers),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return err
	}
	return c.write(ChartIndividual, painter)
}

// RollingReturns draws the rolling mean of daily returns in percent.
func (c *Charts) RollingReturns(history domain.ValueSeries, window int) error {
	returns := formulas.DailyReturns(history.Values())
	if len(returns) < window {
		return fmt.Errorf("not enough data points for a %d-day window", window)
	}

	rolling := make([]float64, 0, len(returns)-window+1)
	labels := make([]string, 0, len(returns)-window+1)
	for i := window; i <= len(returns); i++ {
		rolling = append(rolling, formulas.Mean(returns[i-window:i])*100)
		// returns[i-1] belongs to history[i], the end of the window.
		labels = append(labels, history[i].Date.Format("2006-01-02"))
	}

	painter, err := charts.LineRender([][]float64{rolling},
		charts.TitleTextOptionFunc(fmt.Sprintf("%d-Day Rolling Returns (%%)", window)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 10,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return err
	}
	return c.write(ChartRollingReturns, painter)
}

func (c *Charts) write(name string, painter *charts.Painter) error {
	buf, err := painter.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, name), buf, 0644)
}

func dateLabels(history domain.ValueSeries) []string {
	labels := make([]string, len(history))
	for i, point := range history {
		labels[i] = point.Date.Format("2006-01-02")
	}
	return labels
}
