package model

import "time"

// PortfolioSummary is the aggregate valuation of a portfolio. Monetary fields are in USD;
// Display carries the headline figures converted to the requested display currency.
type PortfolioSummary struct {
	TotalInvested         float64            `json:"totalInvested"`
	TotalMarketValue      float64            `json:"totalMarketValue"`
	TotalGain             float64            `json:"totalGain"` // Unrealized
	TotalGainPercent      float64            `json:"totalGainPercent"`
	TotalRealizedGain     float64            `json:"totalRealizedGain"`
	TotalReturn           float64            `json:"totalReturn"` // Unrealized + realized
	TotalReturnPercent    float64            `json:"totalReturnPercent"`
	CashBalances          map[string]float64 `json:"cashBalances"` // Native amounts per currency
	NormalizedCashBalance float64            `json:"normalizedCashBalance"`
	CashAllocation        float64            `json:"cashAllocation"`
	TotalPortfolioValue   float64            `json:"totalPortfolioValue"`
	StockDailyPnL         float64            `json:"stockDailyPnL"`
	FXPnL                 float64            `json:"fxPnL"`
	DailyPnL              float64            `json:"dailyPnL"`
	DailyPnLPercent       float64            `json:"dailyPnLPercent"`
	Holdings              []Holding          `json:"holdings"`
	AsOf                  time.Time          `json:"asOf"`
	Display               *DisplaySummary    `json:"display,omitempty"`
}

// DisplaySummary holds the headline summary figures in a display currency, both as
// numbers and as currency-formatted strings.
type DisplaySummary struct {
	Currency            string            `json:"currency"`
	TotalPortfolioValue float64           `json:"totalPortfolioValue"`
	TotalMarketValue    float64           `json:"totalMarketValue"`
	CashBalance         float64           `json:"cashBalance"`
	TotalGain           float64           `json:"totalGain"`
	TotalReturn         float64           `json:"totalReturn"`
	DailyPnL            float64           `json:"dailyPnL"`
	Formatted           map[string]string `json:"formatted"`
}
