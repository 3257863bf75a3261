package validation

import (
	"math"
	"strings"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
)

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	// Optional but has constraints
	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdatePortfolio(req request.UpdatePortfolioRequest) error {
	errors := make(map[string]string)

	// Only validate provided fields
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be 100 characters or less"
		}
	}

	if req.Description != nil && len(*req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSetCashBalance checks the currency code and that the amount is a finite number.
// Negative balances are allowed.
func ValidateSetCashBalance(req request.SetCashBalanceRequest) error {
	errors := make(map[string]string)

	if !isCurrencyCode(req.Currency) {
		errors["currency"] = "currency must be a three letter code"
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		errors["amount"] = "amount must be a finite number"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
