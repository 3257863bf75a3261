package model

import "time"

// PriceData is a quote for a ticker as supplied by the market-data provider.
// Prices and Change are expressed in Currency.
type PriceData struct {
	Symbol        string    `json:"symbol"`
	CurrentPrice  float64   `json:"currentPrice"`
	Change        float64   `json:"change"`        // Absolute change versus previous close
	ChangePercent float64   `json:"changePercent"` // Percent change versus previous close
	Currency      string    `json:"currency"`
	Sector        string    `json:"sector,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	AsOf          time.Time `json:"asOf"`
}

// ExchangeRate represents a currency exchange rate for a specific date.
// Rate is the number of ToCurrency units per one FromCurrency unit.
type ExchangeRate struct {
	ID           string    `json:"id"`
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	Rate         float64   `json:"rate"`
	Date         time.Time `json:"date"`
}

// MarketData bundles everything fetched from the market-data provider for one valuation.
type MarketData struct {
	Prices    map[string]PriceData // Quotes keyed by ticker
	FXQuotes  map[string]PriceData // Quotes keyed by pair, e.g. "USDEUR=X"
	Rates     map[string]float64   // Units of currency per USD, always containing USD=1
	Benchmark *PriceData           // Benchmark quote, nil when unavailable
}
