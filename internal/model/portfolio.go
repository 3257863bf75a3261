package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioFilter for querying portfolios
type PortfolioFilter struct {
	IncludeArchived bool
}

// CashBalance is the amount of cash held in one currency within a portfolio.
type CashBalance struct {
	PortfolioID string    `json:"portfolioId"`
	Currency    string    `json:"currency"`
	Amount      float64   `json:"amount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
