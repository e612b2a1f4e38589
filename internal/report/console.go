package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Console renders the analysis summary as formatted text.
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// PrintSummary writes the portfolio overview, return and risk sections,
// market sensitivity when available, and the per-holding breakdown sorted
// by current value.
func (c *Console) PrintSummary(m *domain.MetricsResult, holdings []domain.HoldingPerformance) {
	c.section("PORTFOLIO OVERVIEW")
	c.row("Initial Value:", fmt.Sprintf("$%15.4f", m.InitialValue))
	c.row("Current Value:", fmt.Sprintf("$%15.4f", m.FinalValue))
	c.row("Gain/Loss:", fmt.Sprintf("$%15.4f", m.FinalValue-m.InitialValue))
	c.row("Time Period:", fmt.Sprintf("%d days (%.4f years)", m.Days, m.Years))

	c.section("RETURNS")
	c.row("Total Return:", pct(m.TotalReturn))
	c.row("Annualized Return:", pct(m.AnnualizedReturn))
	if m.BenchmarkReturn != nil {
		c.row("Benchmark Return:", pct(*m.BenchmarkReturn))
		c.row("Excess Return:", pct(m.AnnualizedReturn-*m.BenchmarkReturn))
	}

	c.section("RISK METRICS")
	c.row("Volatility:", pct(m.Volatility))
	c.row("Sharpe Ratio:", fmt.Sprintf("%15.4f", m.SharpeRatio))
	c.row("Sortino Ratio:", fmt.Sprintf("%15.4f", m.SortinoRatio))
	c.row("Max Drawdown:", pct(m.MaxDrawdown))
	c.row("  Peak Date:", m.MaxDrawdownPeakDate.Format("2006-01-02"))
	c.row("  Trough Date:", m.MaxDrawdownTroughDate.Format("2006-01-02"))
	c.row("Win Rate:", pct(m.WinRate))
	c.row("Profit/Loss Ratio:", ratio(m.ProfitLossRatio))

	if m.Beta != nil {
		c.section("MARKET SENSITIVITY")
		c.row("Beta:", fmt.Sprintf("%15.4f", *m.Beta))
		if m.Alpha != nil {
			c.row("Alpha:", pct(*m.Alpha))
		}
	}

	c.section("INDIVIDUAL HOLDINGS")
	for _, h := range holdings {
		fmt.Fprintf(c.out, "\n%s - %s\n", h.Ticker, h.Name)
		c.row("  Shares:", fmt.Sprintf("%15.0f", h.Shares))
		c.row("  Purchase Price:", fmt.Sprintf("$%15.4f", h.PurchasePrice))
		c.row("  Current Price:", fmt.Sprintf("$%15.4f", h.CurrentPrice))
		c.row("  Invested:", fmt.Sprintf("$%15.4f", h.Invested))
		c.row("  Current Value:", fmt.Sprintf("$%15.4f", h.CurrentValue))
		c.row("  Gain/Loss:", fmt.Sprintf("$%15.4f", h.GainLoss))
		c.row("  Total Return:", pct(h.TotalReturn))
		c.row("  Portfolio Weight:", pct(h.Weight))
		if h.RSI14 != nil {
			c.row("  RSI (14d):", fmt.Sprintf("%15.1f", *h.RSI14))
		}
	}
	fmt.Fprintln(c.out)
}

func (c *Console) section(title string) {
	const width = 50
	pad := width - len(title)
	left := pad / 2
	fmt.Fprintf(c.out, "\n%s%s%s\n", strings.Repeat("-", left), title, strings.Repeat("-", pad-left))
}

func (c *Console) row(label, value string) {
	fmt.Fprintf(c.out, "%-22s%s\n", label, value)
}

func pct(v float64) string {
	return fmt.Sprintf("%15.4f%%", v*100)
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return fmt.Sprintf("%15s", "inf (no losses)")
	}
	return fmt.Sprintf("%15.4f", v)
}
