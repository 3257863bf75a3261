package model

// Holding is the derived net position in one ticker. Every monetary field is in USD.
// Holdings are recomputed from the full trade list on every request and never stored.
type Holding struct {
	Ticker                string  `json:"ticker"`
	Shares                float64 `json:"shares"`
	AverageCostBasis      float64 `json:"averageCostBasis"` // Per share, fees included
	TotalInvested         float64 `json:"totalInvested"`    // Shares * AverageCostBasis
	CurrentPrice          float64 `json:"currentPrice"`
	MarketValue           float64 `json:"marketValue"` // Shares * CurrentPrice
	UnrealizedGain        float64 `json:"unrealizedGain"`
	UnrealizedGainPercent float64 `json:"unrealizedGainPercent"`
	Allocation            float64 `json:"allocation"` // Percent of total portfolio value
	DayChange             float64 `json:"dayChange"`  // Per share
	DayChangePercent      float64 `json:"dayChangePercent"`
	Sector                string  `json:"sector,omitempty"`
	Industry              string  `json:"industry,omitempty"`
	Currency              string  `json:"currency"` // Native currency of the asset
}
