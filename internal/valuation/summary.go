package valuation

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// SummaryInput gathers everything BuildSummary needs. Holdings come from AggregateHoldings
// and are already in USD; CashBalances hold native amounts keyed by currency; FXQuotes are
// keyed by FXPair symbol.
type SummaryInput struct {
	Holdings      []model.Holding
	Rates         Rates
	CashBalances  map[string]float64
	FXQuotes      map[string]model.PriceData
	RealizedGains []model.RealizedGainRecord
	AsOf          time.Time
}

// BuildSummary aggregates holdings, cash and realized gains into a PortfolioSummary.
//
// Daily P&L is split into the equity move (day change times shares) and the FX move on
// non-USD cash, where the previous rate is backed out of the FX quote's change percent.
// Allocation is filled in on a copy of each holding as a share of holdings plus cash.
// Every percentage is 0 when its denominator is not positive.
func BuildSummary(in SummaryInput) model.PortfolioSummary {
	s := model.PortfolioSummary{
		CashBalances: make(map[string]float64, len(in.CashBalances)),
		Holdings:     slices.Clone(in.Holdings),
		AsOf:         in.AsOf,
	}
	if s.Holdings == nil {
		s.Holdings = []model.Holding{}
	}

	for _, h := range s.Holdings {
		s.TotalInvested += h.TotalInvested
		s.TotalMarketValue += h.MarketValue
		s.StockDailyPnL += h.DayChange * h.Shares
	}
	s.TotalGain = s.TotalMarketValue - s.TotalInvested
	s.TotalGainPercent = ratio(s.TotalGain, s.TotalInvested)

	for cur, amount := range in.CashBalances {
		cur = strings.ToUpper(cur)
		s.CashBalances[cur] += amount
		s.NormalizedCashBalance += in.Rates.ToUSD(amount, cur)
		s.FXPnL += cashFXPnL(cur, amount, in.Rates, in.FXQuotes)
	}

	s.TotalPortfolioValue = s.TotalMarketValue + s.NormalizedCashBalance
	s.CashAllocation = ratio(s.NormalizedCashBalance, s.TotalPortfolioValue)

	s.DailyPnL = s.StockDailyPnL + s.FXPnL
	s.DailyPnLPercent = ratio(s.DailyPnL, s.TotalPortfolioValue-s.DailyPnL)

	s.TotalRealizedGain = TotalRealized(in.RealizedGains)
	s.TotalReturn = s.TotalGain + s.TotalRealizedGain
	s.TotalReturnPercent = ratio(s.TotalReturn, s.TotalInvested)

	for i := range s.Holdings {
		s.Holdings[i].Allocation = ratio(s.Holdings[i].MarketValue, s.TotalPortfolioValue)
	}

	return s
}

// cashFXPnL returns the USD value change of a cash balance caused by today's FX move.
// The previous rate is backed out of the rate table's rate with the quote's change percent.
// USD cash, zero balances and currencies without a usable quote contribute nothing.
func cashFXPnL(currency string, amount float64, rates Rates, quotes map[string]model.PriceData) float64 {
	if currency == model.BaseCurrency || amount == 0 {
		return 0
	}
	quote, ok := quotes[FXPair(currency)]
	if !ok || quote.ChangePercent == 0 {
		return 0
	}

	// The rate table wins; the quote's own price only fills in a missing rate.
	rate := quote.CurrentPrice
	if rates.Has(currency) {
		rate = rates.Rate(currency)
	}
	if rate <= 0 {
		return 0
	}

	growth := 1 + quote.ChangePercent/100
	if growth <= 0 {
		return 0
	}
	prevRate := rate / growth

	return amount/rate - amount/prevRate
}

// FormatSummary converts the headline figures of a summary into the display currency and
// renders them with the currency's own symbol and precision.
func FormatSummary(s model.PortfolioSummary, currency string, rates Rates) model.DisplaySummary {
	currency = strings.ToUpper(currency)
	if currency == "" {
		currency = model.BaseCurrency
	}

	d := model.DisplaySummary{
		Currency:            currency,
		TotalPortfolioValue: rates.FromUSD(s.TotalPortfolioValue, currency),
		TotalMarketValue:    rates.FromUSD(s.TotalMarketValue, currency),
		CashBalance:         rates.FromUSD(s.NormalizedCashBalance, currency),
		TotalGain:           rates.FromUSD(s.TotalGain, currency),
		TotalReturn:         rates.FromUSD(s.TotalReturn, currency),
		DailyPnL:            rates.FromUSD(s.DailyPnL, currency),
	}

	d.Formatted = map[string]string{
		"totalPortfolioValue": formatMoney(d.TotalPortfolioValue, currency),
		"totalMarketValue":    formatMoney(d.TotalMarketValue, currency),
		"cashBalance":         formatMoney(d.CashBalance, currency),
		"totalGain":           formatMoney(d.TotalGain, currency),
		"totalReturn":         formatMoney(d.TotalReturn, currency),
		"dailyPnL":            formatMoney(d.DailyPnL, currency),
	}

	return d
}

// formatMoney renders amount using go-money's formatter for currency, rounded to the
// currency's minor unit.
func formatMoney(amount float64, currency string) string {
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}
	minor := int64(math.Round(amount * math.Pow10(fraction)))
	return money.New(minor, currency).Display()
}
