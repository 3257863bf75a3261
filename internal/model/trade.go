package model

import "time"

// TradeAction is the direction of a trade execution.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// BaseCurrency is the normalization currency for every monetary field computed by the valuation core.
const BaseCurrency = "USD"

// Trade is one buy or sell execution. Trades are append-only: a correction replaces the
// whole record and a deletion removes it from every future aggregation.
type Trade struct {
	ID            string      `json:"id"`
	PortfolioID   string      `json:"portfolioId"`
	Ticker        string      `json:"ticker"`   // Upper-case ticker symbol
	Action        TradeAction `json:"action"`   // BUY or SELL
	Quantity      float64     `json:"quantity"` // Positive number of shares
	PricePerShare float64     `json:"pricePerShare"`
	Fees          float64     `json:"fees"`
	Currency      string      `json:"currency"` // Currency of PricePerShare and Fees
	ExecutedAt    time.Time   `json:"executedAt"`
	Note          string      `json:"note,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}
