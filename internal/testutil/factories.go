package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

const (
	dateLayout = "2006-01-02"
)

// BaseTime is the default creation and execution time of built records.
var BaseTime = time.Date(2024, time.January, 2, 15, 30, 0, 0, time.UTC)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithDescription("My description").
//	    Archived().
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	IsArchived  bool
	CreatedAt   time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		CreatedAt:   BaseTime,
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived, b.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsArchived:  b.IsArchived,
		CreatedAt:   b.CreatedAt,
	}
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreateArchivedPortfolio creates an archived portfolio with the given name.
func CreateArchivedPortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Archived().Build(t, db)
}

// TradeBuilder provides a fluent interface for creating test trades.
// The default is a USD BUY of 10 shares at 100 without fees.
//
// Example usage:
//
//	trade := testutil.NewTrade(portfolio.ID).
//	    WithTicker("ASML").
//	    Sell(5, 650).
//	    WithCurrency("EUR").
//	    Build(t, db)
type TradeBuilder struct {
	ID            string
	PortfolioID   string
	Ticker        string
	Action        model.TradeAction
	Quantity      float64
	PricePerShare float64
	Fees          float64
	Currency      string
	ExecutedAt    time.Time
	Note          string
}

// NewTrade creates a TradeBuilder for portfolioID with sensible defaults.
func NewTrade(portfolioID string) *TradeBuilder {
	return &TradeBuilder{
		ID:            MakeID(),
		PortfolioID:   portfolioID,
		Ticker:        "AAPL",
		Action:        model.ActionBuy,
		Quantity:      10,
		PricePerShare: 100,
		Currency:      model.BaseCurrency,
		ExecutedAt:    BaseTime,
	}
}

// WithID sets a custom ID.
func (b *TradeBuilder) WithID(id string) *TradeBuilder {
	b.ID = id
	return b
}

// WithTicker sets the ticker.
func (b *TradeBuilder) WithTicker(ticker string) *TradeBuilder {
	b.Ticker = ticker
	return b
}

// Buy makes the trade a BUY of quantity shares at price.
func (b *TradeBuilder) Buy(quantity, price float64) *TradeBuilder {
	b.Action = model.ActionBuy
	b.Quantity = quantity
	b.PricePerShare = price
	return b
}

// Sell makes the trade a SELL of quantity shares at price.
func (b *TradeBuilder) Sell(quantity, price float64) *TradeBuilder {
	b.Action = model.ActionSell
	b.Quantity = quantity
	b.PricePerShare = price
	return b
}

// WithFees sets the fees.
func (b *TradeBuilder) WithFees(fees float64) *TradeBuilder {
	b.Fees = fees
	return b
}

// WithCurrency sets the currency of the price and fees.
func (b *TradeBuilder) WithCurrency(currency string) *TradeBuilder {
	b.Currency = currency
	return b
}

// WithExecutedAt sets the execution time.
func (b *TradeBuilder) WithExecutedAt(executedAt time.Time) *TradeBuilder {
	b.ExecutedAt = executedAt
	return b
}

// Build creates the trade in the database and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	query := `
		INSERT INTO trade (id, portfolio_id, ticker, action, quantity, price_per_share, fees,
		                   currency, executed_at, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	executedAt := b.ExecutedAt.UTC().Format(time.RFC3339)
	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Ticker, string(b.Action), b.Quantity,
		b.PricePerShare, b.Fees, b.Currency, executedAt, b.Note, executedAt)
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}

	return model.Trade{
		ID:            b.ID,
		PortfolioID:   b.PortfolioID,
		Ticker:        b.Ticker,
		Action:        b.Action,
		Quantity:      b.Quantity,
		PricePerShare: b.PricePerShare,
		Fees:          b.Fees,
		Currency:      b.Currency,
		ExecutedAt:    b.ExecutedAt.UTC(),
		Note:          b.Note,
		CreatedAt:     b.ExecutedAt.UTC(),
	}
}

// CreateCashBalance stores amount of currency as the cash balance of a portfolio.
func CreateCashBalance(t *testing.T, db *sql.DB, portfolioID, currency string, amount float64) model.CashBalance {
	t.Helper()

	query := `
		INSERT INTO cash_balance (portfolio_id, currency, amount, updated_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := db.Exec(query, portfolioID, currency, amount, BaseTime.Format(time.RFC3339)); err != nil {
		t.Fatalf("Failed to create test cash balance: %v", err)
	}

	return model.CashBalance{
		PortfolioID: portfolioID,
		Currency:    currency,
		Amount:      amount,
		UpdatedAt:   BaseTime,
	}
}

// PerformanceEntryBuilder provides a fluent interface for creating stored performance
// snapshots.
type PerformanceEntryBuilder struct {
	ID             string
	PortfolioID    string
	Date           time.Time
	Value          float64
	CostBasis      float64
	NetFlow        float64
	TWR            float64
	BenchmarkTWR   float64
	BenchmarkPrice float64
}

// NewPerformanceEntry creates a PerformanceEntryBuilder for portfolioID on date.
func NewPerformanceEntry(portfolioID string, date time.Time) *PerformanceEntryBuilder {
	return &PerformanceEntryBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Date:        date,
		Value:       1000,
		CostBasis:   1000,
	}
}

// WithValue sets the market value and cost basis.
func (b *PerformanceEntryBuilder) WithValue(value, costBasis float64) *PerformanceEntryBuilder {
	b.Value = value
	b.CostBasis = costBasis
	return b
}

// WithTWR sets the cumulative portfolio and benchmark returns.
func (b *PerformanceEntryBuilder) WithTWR(twr, benchmarkTWR float64) *PerformanceEntryBuilder {
	b.TWR = twr
	b.BenchmarkTWR = benchmarkTWR
	return b
}

// WithBenchmarkPrice sets the benchmark price recorded with the snapshot.
func (b *PerformanceEntryBuilder) WithBenchmarkPrice(price float64) *PerformanceEntryBuilder {
	b.BenchmarkPrice = price
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *PerformanceEntryBuilder) Build(t *testing.T, db *sql.DB) model.PerformanceEntry {
	t.Helper()

	query := `
		INSERT INTO performance_history (id, portfolio_id, date, value, cost_basis, net_flow,
		                                 twr, benchmark_twr, benchmark_price, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Date.Format(dateLayout), b.Value, b.CostBasis,
		b.NetFlow, b.TWR, b.BenchmarkTWR, b.BenchmarkPrice, BaseTime.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test performance entry: %v", err)
	}

	return model.PerformanceEntry{
		ID:             b.ID,
		PortfolioID:    b.PortfolioID,
		Date:           b.Date,
		Value:          b.Value,
		CostBasis:      b.CostBasis,
		NetFlow:        b.NetFlow,
		TWR:            b.TWR,
		BenchmarkTWR:   b.BenchmarkTWR,
		BenchmarkPrice: b.BenchmarkPrice,
		CalculatedAt:   BaseTime,
	}
}

// CreateExchangeRate stores a USD based rate for currency on date.
func CreateExchangeRate(t *testing.T, db *sql.DB, currency string, rate float64, date time.Time) model.ExchangeRate {
	t.Helper()

	r := model.ExchangeRate{
		ID:           MakeID(),
		FromCurrency: model.BaseCurrency,
		ToCurrency:   currency,
		Rate:         rate,
		Date:         date,
	}

	query := `
		INSERT INTO exchange_rate (id, from_currency, to_currency, rate, date)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.Exec(query, r.ID, r.FromCurrency, r.ToCurrency, r.Rate, date.Format(dateLayout)); err != nil {
		t.Fatalf("Failed to create test exchange rate: %v", err)
	}

	return r
}
