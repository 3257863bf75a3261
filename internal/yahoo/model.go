package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata and the live market price
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Close prices per timestamp; Yahoo sends null for missing bars
//   - Chart.Error: Optional error object from Yahoo
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top level "chart" object of a Response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns for unknown symbols or bad requests.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the chart of a single symbol.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta carries the symbol description and its latest market price.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	InstrumentType     string  `json:"instrumentType"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

// Indicators wraps the quote arrays of a Result.
type Indicators struct {
	Quote []QuoteSeries `json:"quote"`
}

// QuoteSeries holds one value per timestamp.
type QuoteSeries struct {
	Close []*float64 `json:"close"`
}

// PriceChart is the parsed form of a Response: metadata plus the daily closes that
// actually carry a value.
type PriceChart struct {
	Symbol       string
	Currency     string
	ExchangeName string
	Name         string
	MarketPrice  float64
	MarketTime   time.Time
	// PreviousClose is the close before the first bar of the requested range.
	PreviousClose float64
	Closes        []Close
}

// Close is the closing price of one trading day.
type Close struct {
	Date  time.Time
	Price float64
}
