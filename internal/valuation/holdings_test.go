package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

var day1 = time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)

// onDay returns the timestamp n-1 days after day1.
func onDay(n int) time.Time {
	return day1.AddDate(0, 0, n-1)
}

func buy(ticker string, qty, price, fees float64, day int) model.Trade {
	return model.Trade{
		ID:            ticker + "-buy-" + onDay(day).Format("0102"),
		Ticker:        ticker,
		Action:        model.ActionBuy,
		Quantity:      qty,
		PricePerShare: price,
		Fees:          fees,
		Currency:      "USD",
		ExecutedAt:    onDay(day),
	}
}

func sell(ticker string, qty, price, fees float64, day int) model.Trade {
	t := buy(ticker, qty, price, fees, day)
	t.ID = ticker + "-sell-" + onDay(day).Format("0102")
	t.Action = model.ActionSell
	return t
}

func inCurrency(t model.Trade, currency string) model.Trade {
	t.Currency = currency
	return t
}

func TestAggregateHoldings_EndToEnd(t *testing.T) {
	trades := []model.Trade{
		buy("AAPL", 10, 100, 1, 1),
		sell("AAPL", 4, 150, 1, 10),
	}
	prices := map[string]model.PriceData{"AAPL": {Symbol: "AAPL", CurrentPrice: 160, Currency: "USD"}}

	holdings := AggregateHoldings(trades, prices, NewRates(nil))

	require.Len(t, holdings, 1)
	h := holdings[0]
	assert.Equal(t, "AAPL", h.Ticker)
	assert.InDelta(t, 6, h.Shares, 1e-9)
	assert.InDelta(t, 100.10, h.AverageCostBasis, 1e-9)
	assert.InDelta(t, 600.60, h.TotalInvested, 1e-9)
	assert.InDelta(t, 960, h.MarketValue, 1e-9)
	assert.InDelta(t, 359.40, h.UnrealizedGain, 1e-9)
	assert.InDelta(t, (160-100.10)/100.10*100, h.UnrealizedGainPercent, 1e-9)
	assert.Zero(t, h.Allocation)
}

func TestAggregateHoldings_Idempotent(t *testing.T) {
	trades := []model.Trade{
		buy("MSFT", 3, 300, 0, 1),
		buy("AAPL", 5, 100, 1, 2),
		sell("MSFT", 1, 320, 0, 3),
	}
	prices := map[string]model.PriceData{
		"AAPL": {CurrentPrice: 110, Change: 1.5, ChangePercent: 1.38},
		"MSFT": {CurrentPrice: 330, Change: -2, ChangePercent: -0.6},
	}
	rates := NewRates(map[string]float64{"EUR": 0.92})

	first := AggregateHoldings(trades, prices, rates)
	second := AggregateHoldings(trades, prices, rates)

	assert.Equal(t, first, second)
}

func TestAggregateHoldings_DoesNotMutateInput(t *testing.T) {
	trades := []model.Trade{
		sell("AAPL", 1, 120, 0, 5),
		buy("AAPL", 2, 100, 0, 1),
	}
	original := append([]model.Trade(nil), trades...)

	AggregateHoldings(trades, nil, nil)

	assert.Equal(t, original, trades)
}

func TestAggregateHoldings_Conservation(t *testing.T) {
	trades := []model.Trade{
		inCurrency(buy("SAP", 10, 100, 2, 1), "EUR"),
		inCurrency(buy("SAP", 5, 110, 1, 3), "EUR"),
	}
	rates := NewRates(map[string]float64{"EUR": 0.9})

	holdings := AggregateHoldings(trades, nil, rates)

	require.Len(t, holdings, 1)
	wantUSD := (10*100 + 2 + 5*110 + 1) / 0.9
	assert.InDelta(t, wantUSD, holdings[0].TotalInvested, 1e-9)
	assert.InDelta(t, wantUSD/15, holdings[0].AverageCostBasis, 1e-9)
}

func TestAggregateHoldings_ZeroCrossing(t *testing.T) {
	tests := []struct {
		name   string
		trades []model.Trade
	}{
		{
			name:   "fully sold",
			trades: []model.Trade{buy("TSLA", 10, 200, 0, 1), sell("TSLA", 10, 250, 0, 2)},
		},
		{
			name:   "oversold",
			trades: []model.Trade{buy("TSLA", 5, 200, 0, 1), sell("TSLA", 7, 250, 0, 2)},
		},
		{
			name:   "sell without buy",
			trades: []model.Trade{sell("TSLA", 3, 250, 0, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades := append(tt.trades, buy("AAPL", 1, 100, 0, 1))
			holdings := AggregateHoldings(trades, nil, nil)

			require.Len(t, holdings, 1)
			assert.Equal(t, "AAPL", holdings[0].Ticker)
		})
	}
}

func TestAggregateHoldings_MissingPrice(t *testing.T) {
	holdings := AggregateHoldings([]model.Trade{buy("XYZ", 4, 25, 0, 1)}, map[string]model.PriceData{}, nil)

	require.Len(t, holdings, 1)
	h := holdings[0]
	assert.Zero(t, h.CurrentPrice)
	assert.Zero(t, h.MarketValue)
	assert.InDelta(t, -100, h.UnrealizedGain, 1e-9)
	assert.InDelta(t, -100, h.UnrealizedGainPercent, 1e-9)
	assert.Equal(t, "USD", h.Currency)
}

func TestAggregateHoldings_NormalizesQuoteCurrency(t *testing.T) {
	trades := []model.Trade{inCurrency(buy("ASML", 2, 600, 0, 1), "EUR")}
	prices := map[string]model.PriceData{
		"ASML": {CurrentPrice: 630, Change: 9, ChangePercent: 1.45, Currency: "EUR", Sector: "Technology", Industry: "Semiconductors"},
	}
	rates := NewRates(map[string]float64{"EUR": 0.9})

	holdings := AggregateHoldings(trades, prices, rates)

	require.Len(t, holdings, 1)
	h := holdings[0]
	assert.Equal(t, "EUR", h.Currency)
	assert.InDelta(t, 700, h.CurrentPrice, 1e-9)
	assert.InDelta(t, 10, h.DayChange, 1e-9)
	assert.Equal(t, 1.45, h.DayChangePercent)
	assert.InDelta(t, 1400, h.MarketValue, 1e-9)
	assert.InDelta(t, 5, h.UnrealizedGainPercent, 1e-9)
	assert.Equal(t, "Technology", h.Sector)
	assert.Equal(t, "Semiconductors", h.Industry)
}

func TestAggregateHoldings_OrdersTradesByTime(t *testing.T) {
	// The sell comes first in the slice but happens after both buys.
	trades := []model.Trade{
		sell("NVDA", 10, 50, 0, 10),
		buy("NVDA", 10, 10, 0, 1),
		buy("NVDA", 10, 30, 0, 5),
	}

	holdings := AggregateHoldings(trades, nil, nil)

	require.Len(t, holdings, 1)
	assert.InDelta(t, 10, holdings[0].Shares, 1e-9)
	assert.InDelta(t, 20, holdings[0].AverageCostBasis, 1e-9)
}

func TestAggregateHoldings_SortedByMarketValue(t *testing.T) {
	trades := []model.Trade{
		buy("small", 1, 10, 0, 1),
		buy("LARGE", 1, 10, 0, 1),
		buy("MID", 1, 10, 0, 1),
		buy("TIE", 1, 10, 0, 1),
	}
	prices := map[string]model.PriceData{
		"SMALL": {CurrentPrice: 5},
		"LARGE": {CurrentPrice: 500},
		"MID":   {CurrentPrice: 50},
		"TIE":   {CurrentPrice: 50},
	}

	holdings := AggregateHoldings(trades, prices, nil)

	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}
	assert.Equal(t, []string{"LARGE", "MID", "TIE", "SMALL"}, tickers)
}

func TestAggregateHoldings_Empty(t *testing.T) {
	holdings := AggregateHoldings(nil, nil, nil)

	assert.NotNil(t, holdings)
	assert.Empty(t, holdings)
}
