package model

import "time"

// RealizedGainRecord is the closed-lot result of one SELL trade matched against FIFO buy lots.
// Monetary fields are in USD. UnmatchedQuantity counts shares sold with no open lot left;
// they are carried at zero cost.
type RealizedGainRecord struct {
	TradeID             string    `json:"tradeId"`
	Ticker              string    `json:"ticker"`
	Quantity            float64   `json:"quantity"`
	CostBasis           float64   `json:"costBasis"`
	SalePrice           float64   `json:"salePrice"`
	RealizedGain        float64   `json:"realizedGain"`
	RealizedGainPercent float64   `json:"realizedGainPercent"`
	HoldingPeriodDays   int       `json:"holdingPeriodDays"`
	UnmatchedQuantity   float64   `json:"unmatchedQuantity"`
	ClosedAt            time.Time `json:"closedAt"`
}
