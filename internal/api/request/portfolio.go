package request

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePortfolioRequest represents the request body for changing a portfolio.
// Only the provided fields are changed.
type UpdatePortfolioRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsArchived  *bool   `json:"isArchived,omitempty"`
}

// SetCashBalanceRequest sets the balance held in one currency.
type SetCashBalanceRequest struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}
