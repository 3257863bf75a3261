package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// FinanceClient provides methods for fetching quotes from the Yahoo Finance chart API.
// It implements the market-data provider used by the valuation services.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client whose requests give up after timeout.
// A non-positive timeout leaves requests bounded only by their context.
func NewFinanceClient(timeout time.Duration) *FinanceClient {
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &FinanceClient{
		httpClient: client,
		baseURL:    defaultBaseURL,
	}
}

// WithBaseURL points the client at another host, such as an httptest server.
func (c *FinanceClient) WithBaseURL(baseURL string) *FinanceClient {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// Quote returns the latest price of symbol together with its change versus the previous
// trading day's close. FX pairs such as "USDEUR=X" are quoted like any other symbol.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (model.PriceData, error) {
	resp, err := c.QueryFiveDaySymbol(ctx, symbol)
	if err != nil {
		return model.PriceData{}, err
	}

	chart, err := c.ParseChart(resp)
	if err != nil {
		return model.PriceData{}, fmt.Errorf("failed to parse chart for %s: %w", symbol, err)
	}

	return chart.Quote()
}

// Quote derives the current price and day change from a parsed chart.
//
// The live market price wins over the last daily close. The previous close is the last bar
// from before the market price's trading day, falling back to the close preceding the range.
// Prices quoted in a sub-unit such as pence ("GBp") are returned in the main currency.
func (c PriceChart) Quote() (model.PriceData, error) {
	c = c.inMajorUnits()

	price := c.MarketPrice
	if price <= 0 && len(c.Closes) > 0 {
		price = c.Closes[len(c.Closes)-1].Price
	}
	if price <= 0 {
		return model.PriceData{}, fmt.Errorf("no price available for %s", c.Symbol)
	}

	previous := c.previousClose()

	q := model.PriceData{
		Symbol:       c.Symbol,
		CurrentPrice: price,
		Currency:     strings.ToUpper(c.Currency),
		AsOf:         c.MarketTime,
	}
	if previous > 0 {
		q.Change = price - previous
		q.ChangePercent = q.Change / previous * 100
	}

	return q, nil
}

// minorUnits maps the sub-unit currency codes Yahoo quotes some exchanges in (London in
// pence, Johannesburg in cents, Tel Aviv in agorot) to their currency. All are 1/100.
var minorUnits = map[string]string{
	"GBp": "GBP",
	"GBX": "GBP",
	"ZAc": "ZAR",
	"ILA": "ILS",
}

// inMajorUnits returns a copy of c with prices converted from a sub-unit currency into
// the currency itself. Charts already in a major currency are returned unchanged.
func (c PriceChart) inMajorUnits() PriceChart {
	major, ok := minorUnits[c.Currency]
	if !ok {
		return c
	}

	c.Currency = major
	c.MarketPrice /= 100
	c.PreviousClose /= 100

	closes := make([]Close, len(c.Closes))
	for i, cl := range c.Closes {
		closes[i] = Close{Date: cl.Date, Price: cl.Price / 100}
	}
	c.Closes = closes

	return c
}

func (c PriceChart) previousClose() float64 {
	sessionDay := c.MarketTime
	if sessionDay.IsZero() && len(c.Closes) > 0 {
		sessionDay = c.Closes[len(c.Closes)-1].Date
	}
	sessionDay = sessionDay.UTC().Truncate(24 * time.Hour)

	for i := len(c.Closes) - 1; i >= 0; i-- {
		if c.Closes[i].Date.UTC().Truncate(24 * time.Hour).Before(sessionDay) {
			return c.Closes[i].Price
		}
	}
	return c.PreviousClose
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
//
// The method performs validation to ensure:
//   - A result is present
//   - Close prices, when present, line up with the timestamps
//
// Bars whose close is null are skipped.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:        result.Meta.Symbol,
		Currency:      result.Meta.Currency,
		ExchangeName:  result.Meta.ExchangeName,
		Name:          result.Meta.LongName,
		MarketPrice:   result.Meta.RegularMarketPrice,
		PreviousClose: result.Meta.ChartPreviousClose,
	}
	if chart.Name == "" {
		chart.Name = result.Meta.ShortName
	}
	if result.Meta.RegularMarketTime > 0 {
		chart.MarketTime = time.Unix(result.Meta.RegularMarketTime, 0).UTC()
	}

	if len(result.Indicators.Quote) == 0 {
		return chart, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		chart.Closes = append(chart.Closes, Close{
			Date:  time.Unix(ts, 0).UTC(),
			Price: *closes[i],
		})
	}

	return chart, nil
}

// QueryFiveDaySymbol fetches the last 5 days of daily bars for a symbol.
//
// Parameters:
//   - ctx: bounds the HTTP request
//   - symbol: ticker or FX pair (e.g., "AAPL", "USDEUR=X")
//
// Returns:
//   - Response: Raw API response containing price data
//   - error: If the HTTP request fails, Yahoo returns an error, or no results are found
func (c *FinanceClient) QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return result, nil
}

// queryYahoo executes a GET against the chart API, decodes the JSON body and surfaces
// Yahoo's own error object as an error.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}

	return response, nil
}
