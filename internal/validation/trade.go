package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// ValidTradeAction contains the allowed trade actions, compared case-insensitively.
var ValidTradeAction = map[model.TradeAction]bool{
	model.ActionBuy: true, model.ActionSell: true,
}

// ValidateCreateTrade validates a trade creation request.
//
// Required fields:
//   - portfolioId: Must be a valid UUID
//   - ticker: Non-empty, at most 20 characters, no whitespace
//   - action: BUY or SELL
//   - quantity, pricePerShare: Must be positive
//   - executedAt: YYYY-MM-DD or RFC3339
//
// Optional fields:
//   - fees: Must not be negative
//   - currency: Three letter code, defaults to USD
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTrade(req request.CreateTradeRequest) error {
	if err := ValidateUUID(req.PortfolioID); err != nil {
		return err
	}
	return validateTradeFields(req.TradeRequest)
}

// ValidateUpdateTrade validates a trade replacement request with the same rules as create.
func ValidateUpdateTrade(req request.UpdateTradeRequest) error {
	return validateTradeFields(req.TradeRequest)
}

func validateTradeFields(req request.TradeRequest) error {
	errors := make(map[string]string)

	ticker := strings.TrimSpace(req.Ticker)
	switch {
	case ticker == "":
		errors["ticker"] = "ticker is required"
	case len(ticker) > 20:
		errors["ticker"] = "ticker must be 20 characters or less"
	case strings.ContainsAny(ticker, " \t\n"):
		errors["ticker"] = "ticker cannot contain whitespace"
	}

	if strings.TrimSpace(req.Action) == "" {
		errors["action"] = "action is required"
	} else if !ValidTradeAction[model.TradeAction(strings.ToUpper(req.Action))] {
		errors["action"] = fmt.Sprintf("invalid action: %s", req.Action)
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.PricePerShare <= 0 {
		errors["pricePerShare"] = "pricePerShare must be positive"
	}

	if req.Fees < 0 {
		errors["fees"] = "fees cannot be negative"
	}

	if req.Currency != "" && !isCurrencyCode(req.Currency) {
		errors["currency"] = "currency must be a three letter code"
	}

	if strings.TrimSpace(req.ExecutedAt) == "" {
		errors["executedAt"] = "executedAt is required"
	} else if _, err := ParseTime(req.ExecutedAt); err != nil {
		errors["executedAt"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
