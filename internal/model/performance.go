package model

import "time"

// PerformanceEntry is one day of persisted portfolio history. TWR fields are cumulative
// fractions since inception (0.10 means +10%). Value, CostBasis and NetFlow are in USD;
// NetFlow is buy cost minus sell proceeds on that date.
type PerformanceEntry struct {
	ID             string    `json:"id"`
	PortfolioID    string    `json:"portfolioId"`
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
	CostBasis      float64   `json:"costBasis"`
	NetFlow        float64   `json:"netFlow"`
	TWR            float64   `json:"twr"`
	BenchmarkTWR   float64   `json:"benchmarkTwr"`
	BenchmarkPrice float64   `json:"benchmarkPrice"`
	CalculatedAt   time.Time `json:"calculatedAt"`
}

// NormalizedEntry is a performance point re-based to the start of the selected window.
// Returns are percentages.
type NormalizedEntry struct {
	Date            time.Time `json:"date"`
	PortfolioReturn float64   `json:"portfolioReturn"`
	BenchmarkReturn float64   `json:"benchmarkReturn"`
	Value           float64   `json:"value"`
	CostBasis       float64   `json:"costBasis"`
}

// NormalizedSeries is the result of re-basing a window. InsufficientData is set when the
// window holds fewer than two entries; Points is then empty.
type NormalizedSeries struct {
	Points           []NormalizedEntry `json:"points"`
	InsufficientData bool              `json:"insufficientData"`
}
