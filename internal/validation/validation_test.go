package validation_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/validation"
)

func validTrade() request.TradeRequest {
	return request.TradeRequest{
		Ticker:        "AAPL",
		Action:        "buy",
		Quantity:      10,
		PricePerShare: 100,
		ExecutedAt:    "2024-01-02",
	}
}

// fields returns the field names of a validation error, or nil for any other error.
func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return nil
	}
	return verr.Fields
}

func TestValidateCreateTrade(t *testing.T) {
	t.Run("valid trade passes", func(t *testing.T) {
		req := request.CreateTradeRequest{PortfolioID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", TradeRequest: validTrade()}
		if err := validation.ValidateCreateTrade(req); err != nil {
			t.Errorf("ValidateCreateTrade() error = %v", err)
		}
	})

	t.Run("portfolio id must be a uuid", func(t *testing.T) {
		req := request.CreateTradeRequest{PortfolioID: "abc", TradeRequest: validTrade()}
		if err := validation.ValidateCreateTrade(req); !errors.Is(err, validation.ErrInvalidUUID) {
			t.Errorf("ValidateCreateTrade() error = %v, want ErrInvalidUUID", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.TradeRequest)
		field  string
	}{
		{"missing ticker", func(r *request.TradeRequest) { r.Ticker = " " }, "ticker"},
		{"long ticker", func(r *request.TradeRequest) { r.Ticker = strings.Repeat("A", 21) }, "ticker"},
		{"ticker with space", func(r *request.TradeRequest) { r.Ticker = "BRK B" }, "ticker"},
		{"missing action", func(r *request.TradeRequest) { r.Action = "" }, "action"},
		{"dividend action", func(r *request.TradeRequest) { r.Action = "DIVIDEND" }, "action"},
		{"zero quantity", func(r *request.TradeRequest) { r.Quantity = 0 }, "quantity"},
		{"zero price", func(r *request.TradeRequest) { r.PricePerShare = 0 }, "pricePerShare"},
		{"negative fees", func(r *request.TradeRequest) { r.Fees = -0.01 }, "fees"},
		{"numeric currency", func(r *request.TradeRequest) { r.Currency = "123" }, "currency"},
		{"missing date", func(r *request.TradeRequest) { r.ExecutedAt = "" }, "executedAt"},
		{"bad date", func(r *request.TradeRequest) { r.ExecutedAt = "02/01/2024" }, "executedAt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := validTrade()
			tt.mutate(&trade)

			err := validation.ValidateUpdateTrade(request.UpdateTradeRequest{TradeRequest: trade})
			got := fields(t, err)
			if _, ok := got[tt.field]; !ok || len(got) != 1 {
				t.Errorf("ValidateUpdateTrade() fields = %v, want only %q", got, tt.field)
			}
		})
	}

	t.Run("all failures are reported together", func(t *testing.T) {
		err := validation.ValidateUpdateTrade(request.UpdateTradeRequest{})
		if got := fields(t, err); len(got) != 5 {
			t.Errorf("expected 5 failing fields, got %v", got)
		}
		if !strings.HasPrefix(err.Error(), "action: ") {
			t.Errorf("Error() should list fields in sorted order, got %q", err.Error())
		}
	})
}

func TestValidatePortfolio(t *testing.T) {
	if err := validation.ValidateCreatePortfolio(request.CreatePortfolioRequest{Name: "Core"}); err != nil {
		t.Errorf("ValidateCreatePortfolio() error = %v", err)
	}
	if got := fields(t, validation.ValidateCreatePortfolio(request.CreatePortfolioRequest{})); got["name"] == "" {
		t.Errorf("expected name error, got %v", got)
	}

	empty := ""
	if got := fields(t, validation.ValidateUpdatePortfolio(request.UpdatePortfolioRequest{Name: &empty})); got["name"] == "" {
		t.Errorf("expected name error for an empty rename, got %v", got)
	}
	if err := validation.ValidateUpdatePortfolio(request.UpdatePortfolioRequest{}); err != nil {
		t.Errorf("an empty update should pass, got %v", err)
	}
}

func TestValidateCashAndCurrency(t *testing.T) {
	if err := validation.ValidateSetCashBalance(request.SetCashBalanceRequest{Currency: "HUF", Amount: -10}); err != nil {
		t.Errorf("negative balances are allowed, got %v", err)
	}
	if got := fields(t, validation.ValidateSetCashBalance(request.SetCashBalanceRequest{Currency: "HUF", Amount: math.Inf(1)})); got["amount"] == "" {
		t.Errorf("expected amount error, got %v", got)
	}

	if err := validation.ValidateCurrency("eur"); err != nil {
		t.Errorf("ValidateCurrency(eur) error = %v", err)
	}
	if err := validation.ValidateCurrency("EU"); !errors.Is(err, apperrors.ErrInvalidCurrency) {
		t.Errorf("ValidateCurrency(EU) error = %v, want ErrInvalidCurrency", err)
	}
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{"2024-01-02", "2024-01-02T15:30:00Z", "2024-01-02T16:30:00+01:00"} {
		got, err := validation.ParseTime(in)
		if err != nil {
			t.Errorf("ParseTime(%q) error = %v", in, err)
			continue
		}
		if got.Location().String() != "UTC" || got.Year() != 2024 || got.YearDay() != 2 {
			t.Errorf("ParseTime(%q) = %v", in, got)
		}
	}
	if _, err := validation.ParseTime("tomorrow"); err == nil {
		t.Error("ParseTime(tomorrow) expected error")
	}
}
