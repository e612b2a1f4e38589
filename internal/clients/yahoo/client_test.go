package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-analyzer/pkg/logger"
)

func testClient(srv *httptest.Server) *Client {
	c := NewClient(logger.New(logger.Config{Level: "error"}), 1000)
	c.chartURL = srv.URL + "/chart/"
	c.quoteURL = srv.URL + "/quote"
	return c
}

func TestHistoricalPrices(t *testing.T) {
	day1 := time.Date(2023, 1, 2, 14, 30, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprintf(w, `{"chart":{"result":[{
			"timestamp":[%d,%d,%d],
			"indicators":{"quote":[{"close":[100.5,null,102.25]}]}
		}],"error":null}}`, day1.Unix(), day2.Unix(), day3.Unix())
	}))
	defer srv.Close()

	series, err := testClient(srv).HistoricalPrices(context.Background(),
		"AAPL", day1.AddDate(0, 0, -1), day3)
	require.NoError(t, err)

	// The null middle day is dropped; dates are normalized to midnight UTC.
	require.Len(t, series, 2)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.Equal(t, 100.5, series[0].Close)
	assert.Equal(t, time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC), series[1].Date)
	assert.Equal(t, 102.25, series[1].Close)
}

func TestHistoricalPricesUnknownSymbolFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	series, err := testClient(srv).HistoricalPrices(context.Background(),
		"NOSUCH", time.Now().AddDate(-1, 0, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestCurrentPriceFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No currentPrice: regularMarketPrice should be used.
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"symbol":"AAPL","regularMarketPrice":187.3}],"error":null}}`)
	}))
	defer srv.Close()

	price, err := testClient(srv).CurrentPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 187.3, *price)
}

func TestStockInfoDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"symbol":"^IXIC","shortName":"NASDAQ Composite"}],"error":null}}`)
	}))
	defer srv.Close()

	info, err := testClient(srv).StockInfo(context.Background(), "^IXIC")
	require.NoError(t, err)
	assert.Equal(t, "NASDAQ Composite", info.Name)
	assert.Equal(t, "Unknown", info.Sector)
	assert.Equal(t, "Unknown", info.Industry)
	assert.Equal(t, "Unknown", info.Currency)
}
