package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// MockMarketData is an in-memory market-data provider for testing.
// It returns predefined quotes instead of making API calls. Symbols without a quote fail
// the same way an unknown symbol fails at the real provider.
type MockMarketData struct {
	mu     sync.Mutex
	quotes map[string]model.PriceData
	errs   map[string]error
	calls  map[string]int
}

// NewMockMarketData creates an empty mock provider.
func NewMockMarketData() *MockMarketData {
	return &MockMarketData{
		quotes: make(map[string]model.PriceData),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// WithQuote registers a quote for symbol.
func (m *MockMarketData) WithQuote(symbol string, price, change float64, currency string) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := model.PriceData{
		Symbol:       strings.ToUpper(symbol),
		CurrentPrice: price,
		Change:       change,
		Currency:     currency,
	}
	if previous := price - change; previous > 0 {
		q.ChangePercent = change / previous * 100
	}
	m.quotes[q.Symbol] = q
	return m
}

// WithRate registers the USD<CUR>=X quote for currency, with changePercent as the day move.
func (m *MockMarketData) WithRate(currency string, rate, changePercent float64) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol := "USD" + strings.ToUpper(currency) + "=X"
	m.quotes[symbol] = model.PriceData{
		Symbol:        symbol,
		CurrentPrice:  rate,
		ChangePercent: changePercent,
		Currency:      strings.ToUpper(currency),
	}
	return m
}

// WithError makes every request for symbol fail with err.
func (m *MockMarketData) WithError(symbol string, err error) *MockMarketData {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errs[strings.ToUpper(symbol)] = err
	return m
}

// Quote implements service.MarketDataProvider.
func (m *MockMarketData) Quote(ctx context.Context, symbol string) (model.PriceData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[symbol]++

	if err := ctx.Err(); err != nil {
		return model.PriceData{}, err
	}
	if err, ok := m.errs[symbol]; ok {
		return model.PriceData{}, err
	}
	q, ok := m.quotes[symbol]
	if !ok {
		return model.PriceData{}, fmt.Errorf("no data found for %s", symbol)
	}
	return q, nil
}

// Calls returns how many times symbol was requested.
func (m *MockMarketData) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}
