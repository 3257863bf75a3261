package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/portfolio-valuation/internal/config"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
	"github.com/ndewijer/portfolio-valuation/internal/service"
)

// Now is the fixed clock of the services built by this package: 2024-06-14 21:00 UTC.
var Now = time.Date(2024, time.June, 14, 21, 0, 0, 0, time.UTC)

// FixedClock returns Now.
func FixedClock() time.Time {
	return Now
}

// NewTestConfig returns a configuration with the market-data and valuation settings the
// service tests rely on: SPY as benchmark and no always-fetched FX currencies.
func NewTestConfig() *config.Config {
	return &config.Config{
		MarketData: config.MarketDataConfig{
			Timeout:     time.Second,
			Concurrency: 2,
		},
		Valuation: config.ValuationConfig{
			DisplayCurrency: "USD",
			BenchmarkSymbol: "SPY",
		},
	}
}

// NewTestMarketService builds a MarketService backed by provider and the exchange_rate
// table of db.
func NewTestMarketService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.MarketService {
	t.Helper()

	return service.NewMarketService(
		provider,
		repository.NewExchangeRateRepository(db),
		NewTestConfig(),
		logging.NewSilent(),
	).WithClock(FixedClock)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		repository.NewTradeRepository(db),
		repository.NewCashRepository(db),
		repository.NewPerformanceRepository(db),
		NewTestMarketService(t, db, provider),
		"USD",
		logging.NewSilent(),
	).WithClock(FixedClock)
}

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	return service.NewTradeService(
		repository.NewTradeRepository(db),
		repository.NewPortfolioRepository(db),
		logging.NewSilent(),
	).WithClock(FixedClock)
}

func NewTestCashService(t *testing.T, db *sql.DB) *service.CashService {
	t.Helper()

	return service.NewCashService(
		repository.NewCashRepository(db),
		repository.NewPortfolioRepository(db),
		logging.NewSilent(),
	).WithClock(FixedClock)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		NewTestPortfolioService(t, db, provider),
		repository.NewPortfolioRepository(db),
		repository.NewPerformanceRepository(db),
		logging.NewSilent(),
	).WithClock(FixedClock)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a unique ID for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
