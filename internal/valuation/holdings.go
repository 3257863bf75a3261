package valuation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// position is the running state of one ticker while folding its trades.
type position struct {
	ticker       string
	currency     string // Currency of the first trade, used when no quote is available
	shares       float64
	totalCostUSD float64
	buyQuantity  float64
}

// apply folds one trade into the position using running weighted-average cost accounting.
// Shares and buyQuantity are allowed to go negative on oversold ledgers.
func (p *position) apply(t model.Trade, rates Rates) {
	switch t.Action {
	case model.ActionBuy:
		p.totalCostUSD += rates.ToUSD(t.Quantity*t.PricePerShare+t.Fees, t.Currency)
		p.shares += t.Quantity
		p.buyQuantity += t.Quantity
	case model.ActionSell:
		avgCost := 0.0
		if p.buyQuantity != 0 {
			avgCost = p.totalCostUSD / p.buyQuantity
		}
		p.totalCostUSD -= t.Quantity * avgCost
		p.shares -= t.Quantity
		p.buyQuantity -= t.Quantity
	}
}

// AggregateHoldings folds the trade log into one Holding per ticker with a positive share
// count, valued against prices and normalized to USD.
//
// Trades are ordered by execution time before folding (stable, so same-instant trades keep
// their input order) because weighted-average cost is order sensitive. Tickers missing from
// prices are valued at zero. Allocation is left at zero; BuildSummary fills it in.
// The result is sorted by market value, largest first.
func AggregateHoldings(trades []model.Trade, prices map[string]model.PriceData, rates Rates) []model.Holding {
	positions := foldPositions(trades, rates)

	holdings := make([]model.Holding, 0, len(positions))
	for _, p := range positions {
		if p.shares <= 0 {
			continue
		}
		holdings = append(holdings, valuePosition(p, prices, rates))
	}

	slices.SortStableFunc(holdings, func(a, b model.Holding) int {
		if c := cmp.Compare(b.MarketValue, a.MarketValue); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})

	return holdings
}

// foldPositions groups trades by ticker in chronological order and folds each group.
// Positions are returned in order of first appearance.
func foldPositions(trades []model.Trade, rates Rates) []*position {
	byTicker := make(map[string]*position)
	var order []*position

	for _, t := range chronological(trades) {
		ticker := normalizeTicker(t.Ticker)
		p, ok := byTicker[ticker]
		if !ok {
			p = &position{ticker: ticker, currency: strings.ToUpper(t.Currency)}
			byTicker[ticker] = p
			order = append(order, p)
		}
		p.apply(t, rates)
	}

	return order
}

func valuePosition(p *position, prices map[string]model.PriceData, rates Rates) model.Holding {
	avgCost := 0.0
	if p.buyQuantity > 0 {
		avgCost = p.totalCostUSD / p.buyQuantity
	}

	h := model.Holding{
		Ticker:           p.ticker,
		Shares:           p.shares,
		AverageCostBasis: avgCost,
		TotalInvested:    p.shares * avgCost,
		Currency:         p.currency,
	}

	if quote, ok := prices[p.ticker]; ok {
		if quote.Currency != "" {
			h.Currency = strings.ToUpper(quote.Currency)
		}
		h.CurrentPrice = rates.ToUSD(quote.CurrentPrice, h.Currency)
		h.DayChange = rates.ToUSD(quote.Change, h.Currency)
		h.DayChangePercent = quote.ChangePercent
		h.Sector = quote.Sector
		h.Industry = quote.Industry
	}

	h.MarketValue = h.Shares * h.CurrentPrice
	h.UnrealizedGain = h.MarketValue - h.TotalInvested
	h.UnrealizedGainPercent = percentChange(h.CurrentPrice, avgCost)

	return h
}

// chronological returns a copy of trades stably sorted by execution time.
func chronological(trades []model.Trade) []model.Trade {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b model.Trade) int {
		return a.ExecutedAt.Compare(b.ExecutedAt)
	})
	return sorted
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// percentChange returns (value-base)/base*100, or 0 when base is zero.
func percentChange(value, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

// ratio returns part/whole*100, or 0 when whole is not positive.
func ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
