package request

// TradeRequest holds the fields of a trade shared by create and replace.
type TradeRequest struct {
	Ticker        string  `json:"ticker"`
	Action        string  `json:"action"`
	Quantity      float64 `json:"quantity"`
	PricePerShare float64 `json:"pricePerShare"`
	Fees          float64 `json:"fees"`
	Currency      string  `json:"currency"`
	ExecutedAt    string  `json:"executedAt"` // YYYY-MM-DD or RFC3339
	Note          string  `json:"note"`
}

// CreateTradeRequest represents the request body for recording a trade.
type CreateTradeRequest struct {
	PortfolioID string `json:"portfolioId"`
	TradeRequest
}

// UpdateTradeRequest replaces every field of an existing trade. The trade stays in its portfolio.
type UpdateTradeRequest struct {
	TradeRequest
}
