package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// PDF assembles the summary tables and rendered charts into a single
// report document.
type PDF struct {
	dir string
	log zerolog.Logger
}

// NewPDF creates a PDF report writer targeting dir, creating it when
// missing.
func NewPDF(dir string, log zerolog.Logger) (*PDF, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &PDF{
		dir: dir,
		log: log.With().Str("component", "pdf").Logger(),
	}, nil
}

// Generate writes portfolio_report.pdf and returns its path. chartDir may
// be empty, in which case the chart pages are omitted.
func (p *PDF) Generate(m *domain.MetricsResult, holdings []domain.HoldingPerformance, benchmarkLabel, chartDir string) (string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	p.header(doc)
	p.overviewTable(doc, m)
	p.riskTable(doc, m, benchmarkLabel)
	p.holdingsTable(doc, holdings)
	if chartDir != "" {
		p.chartPages(doc, chartDir)
	}

	path := filepath.Join(p.dir, "portfolio_report.pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF report: %w", err)
	}
	p.log.Info().Str("path", path).Msg("PDF report saved")
	return path, nil
}

func (p *PDF) header(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Portfolio Performance Report", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(110, 110, 110)
	doc.CellFormat(0, 6, "Generated "+time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(6)
}

func (p *PDF) sectionTitle(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	doc.Ln(1)
}

func (p *PDF) metricRow(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(70, 7, label, "B", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(50, 7, value, "B", 1, "R", false, 0, "")
}

func (p *PDF) overviewTable(doc *fpdf.Fpdf, m *domain.MetricsResult) {
	p.sectionTitle(doc, "Overview")
	p.metricRow(doc, "Initial Investment", fmt.Sprintf("$%.2f", m.InitialValue))
	p.metricRow(doc, "Final Value", fmt.Sprintf("$%.2f", m.FinalValue))
	p.metricRow(doc, "Total Return", fmt.Sprintf("%.2f%%", m.TotalReturn*100))
	p.metricRow(doc, "Annualized Return", fmt.Sprintf("%.2f%%", m.AnnualizedReturn*100))
	p.metricRow(doc, "Period", fmt.Sprintf("%d days (%.2f years)", m.Days, m.Years))
	doc.Ln(6)
}

func (p *PDF) riskTable(doc *fpdf.Fpdf, m *domain.MetricsResult, benchmarkLabel string) {
	p.sectionTitle(doc, "Risk Metrics")
	p.metricRow(doc, "Annualized Volatility", fmt.Sprintf("%.2f%%", m.Volatility*100))
	p.metricRow(doc, "Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio))
	p.metricRow(doc, "Sortino Ratio", fmt.Sprintf("%.2f", m.SortinoRatio))
	p.metricRow(doc, "Maximum Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100))
	p.metricRow(doc, "Win Rate", fmt.Sprintf("%.2f%%", m.WinRate*100))
	if math.IsInf(m.ProfitLossRatio, 1) {
		p.metricRow(doc, "Profit/Loss Ratio", "inf (no losses)")
	} else {
		p.metricRow(doc, "Profit/Loss Ratio", fmt.Sprintf("%.2f", m.ProfitLossRatio))
	}
	if m.Beta != nil {
		p.metricRow(doc, fmt.Sprintf("Beta (vs %s)", benchmarkLabel), fmt.Sprintf("%.2f", *m.Beta))
	}
	if m.Alpha != nil {
		p.metricRow(doc, "Alpha (annualized)", fmt.Sprintf("%.2f%%", *m.Alpha*100))
	}
	if m.BenchmarkReturn != nil {
		p.metricRow(doc, fmt.Sprintf("%s Return", benchmarkLabel), fmt.Sprintf("%.2f%%", *m.BenchmarkReturn*100))
	}
	doc.Ln(6)
}

func (p *PDF) holdingsTable(doc *fpdf.Fpdf, holdings []domain.HoldingPerformance) {
	if len(holdings) == 0 {
		return
	}
	p.sectionTitle(doc, "Holdings")

	headers := []struct {
		label string
		width float64
	}{
		{"Ticker", 22},
		{"Shares", 20},
		{"Cost", 25},
		{"Value", 25},
		{"Gain/Loss", 28},
		{"Return", 22},
		{"Annual", 22},
		{"Weight", 20},
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(60, 60, 60)
	doc.SetTextColor(255, 255, 255)
	for _, h := range headers {
		doc.CellFormat(h.width, 8, h.label, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(0, 0, 0)
	for i, h := range holdings {
		if i%2 == 0 {
			doc.SetFillColor(245, 245, 245)
		} else {
			doc.SetFillColor(255, 255, 255)
		}
		cells := []string{
			h.Ticker,
			fmt.Sprintf("%.2f", h.Shares),
			fmt.Sprintf("$%.2f", h.Invested),
			fmt.Sprintf("$%.2f", h.CurrentValue),
			fmt.Sprintf("$%.2f", h.GainLoss),
			fmt.Sprintf("%.2f%%", h.TotalReturn*100),
			fmt.Sprintf("%.2f%%", h.AnnualizedReturn*100),
			fmt.Sprintf("%.1f%%", h.Weight*100),
		}
		for j, cell := range cells {
			align := "R"
			if j == 0 {
				align = "L"
			}
			doc.CellFormat(headers[j].width, 7, cell, "1", 0, align, true, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(6)
}

func (p *PDF) chartPages(doc *fpdf.Fpdf, chartDir string) {
	pages := []struct {
		file  string
		title string
	}{
		{ChartPortfolioValue, "Portfolio Value Over Time"},
		{ChartDrawdown, "Drawdown"},
		{ChartAllocation, "Allocation"},
		{ChartIndividual, "Individual Holdings Performance"},
		{ChartRollingReturns, "Rolling Returns"},
	}

	for _, page := range pages {
		path := filepath.Join(chartDir, page.file)
		if _, err := os.Stat(path); err != nil {
			p.log.Debug().Str("chart", page.file).Msg("Chart missing, skipping PDF page")
			continue
		}
		doc.AddPage()
		p.sectionTitle(doc, page.title)
		// A4 portrait is 210mm wide; keep the 2:1 chart aspect ratio.
		doc.ImageOptions(path, 15, doc.GetY(), 180, 90, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
}
