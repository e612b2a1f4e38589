package portfolio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// dateLayout is the required purchase date format in portfolio CSV files.
const dateLayout = "2006-01-02"

var requiredColumns = []string{"ticker", "shares", "purchase_price", "purchase_date"}

// Loader reads portfolios from CSV files.
//
// Expected format:
//
//	ticker,shares,purchase_price,purchase_date
//	AAPL,10,150.0,2023-01-01
//	GOOGL,5,100.0,2023-01-01
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new portfolio loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "portfolio_loader").Logger(),
	}
}

// LoadCSV loads a portfolio from a CSV file. Columns may appear in any
// order but all four are required. A row whose ticker was already seen
// replaces the earlier lot; this is logged since it usually means a
// mistake in the input file.
func (l *Loader) LoadCSV(path string) (domain.Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open portfolio file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("portfolio file is empty: %s", path)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	p := make(domain.Portfolio, len(records)-1)
	for i, record := range records[1:] {
		holding, err := parseHolding(record, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		if _, exists := p[holding.Ticker]; exists {
			l.log.Warn().
				Str("ticker", holding.Ticker).
				Int("row", i+2).
				Msg("Duplicate ticker in portfolio, replacing earlier lot")
		}
		p[holding.Ticker] = holding
	}

	if len(p) == 0 {
		return nil, fmt.Errorf("portfolio file has no holdings: %s", path)
	}

	l.log.Info().Int("holdings", len(p)).Str("path", path).Msg("Portfolio loaded")
	return p, nil
}

// mapColumns resolves header names to column indexes, case-insensitively.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV must contain columns %v, missing %q", requiredColumns, required)
		}
	}

	return columns, nil
}

func parseHolding(record []string, columns map[string]int) (domain.Holding, error) {
	field := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(record) {
			return "", fmt.Errorf("missing value for column %q", name)
		}
		return strings.TrimSpace(record[idx]), nil
	}

	ticker, err := field("ticker")
	if err != nil {
		return domain.Holding{}, err
	}
	if ticker == "" {
		return domain.Holding{}, fmt.Errorf("empty ticker")
	}

	sharesStr, err := field("shares")
	if err != nil {
		return domain.Holding{}, err
	}
	shares, err := strconv.ParseFloat(sharesStr, 64)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("invalid shares %q: %w", sharesStr, err)
	}
	if shares < 0 {
		return domain.Holding{}, fmt.Errorf("shares must be non-negative, got %f", shares)
	}

	priceStr, err := field("purchase_price")
	if err != nil {
		return domain.Holding{}, err
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("invalid purchase_price %q: %w", priceStr, err)
	}

	dateStr, err := field("purchase_date")
	if err != nil {
		return domain.Holding{}, err
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("invalid purchase_date %q (want YYYY-MM-DD): %w", dateStr, err)
	}

	return domain.Holding{
		Ticker:        strings.ToUpper(ticker),
		Shares:        shares,
		PurchasePrice: price,
		PurchaseDate:  date.UTC(),
	}, nil
}
