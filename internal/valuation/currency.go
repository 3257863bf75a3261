// Package valuation turns a trade log, quotes and exchange rates into holdings, realized
// gains, portfolio summaries and window-normalized performance.
//
// Every function in this package is pure: inputs are never mutated, results are freshly
// allocated, and missing or inconsistent data degrades to defined zero values instead of
// errors. Callers fetch and persist; this package only computes.
package valuation

import (
	"strings"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// Rates maps a currency code to the number of units of that currency per one USD.
// The table is anchored at USD = 1; a nil Rates treats every currency as USD.
type Rates map[string]float64

// NewRates returns a rate table containing USD = 1 plus the given entries.
func NewRates(entries map[string]float64) Rates {
	r := Rates{model.BaseCurrency: 1}
	for cur, rate := range entries {
		r[strings.ToUpper(cur)] = rate
	}
	return r
}

// Rate returns the units of currency per USD. Empty, USD, unknown and non-positive
// entries resolve to 1 so that conversions never divide by zero.
func (r Rates) Rate(currency string) float64 {
	currency = strings.ToUpper(currency)
	if currency == "" || currency == model.BaseCurrency {
		return 1
	}
	rate, ok := r[currency]
	if !ok || rate <= 0 {
		return 1
	}
	return rate
}

// Has reports whether the table holds a usable rate for currency. Empty and USD always do,
// matching Rate.
func (r Rates) Has(currency string) bool {
	currency = strings.ToUpper(currency)
	if currency == "" || currency == model.BaseCurrency {
		return true
	}
	rate, ok := r[currency]
	return ok && rate > 0
}

// ToUSD converts an amount expressed in currency into USD.
func (r Rates) ToUSD(amount float64, currency string) float64 {
	return amount / r.Rate(currency)
}

// FromUSD converts a USD amount into currency.
func (r Rates) FromUSD(amount float64, currency string) float64 {
	return amount * r.Rate(currency)
}

// Convert converts amount from one currency to another through USD.
func Convert(amount float64, from, to string, rates Rates) float64 {
	if strings.EqualFold(from, to) {
		return amount
	}
	return rates.FromUSD(rates.ToUSD(amount, from), to)
}

// FXPair returns the market-data symbol quoting how many units of currency one USD buys.
func FXPair(currency string) string {
	return model.BaseCurrency + strings.ToUpper(currency) + "=X"
}
