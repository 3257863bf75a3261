package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-valuation/internal/repository"
	"github.com/ndewijer/portfolio-valuation/internal/testutil"
)

// TestMarketService_Fetch tests gathering quotes, rates and the benchmark.
//
// WHY: The market-data provider is unreliable. One failing symbol must not fail the whole
// valuation, and FX rates must survive an outage through the stored history.
func TestMarketService_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("collects quotes, rates and the benchmark", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketData().
			WithQuote("AAPL", 150, 1, "USD").
			WithQuote("ASML", 900, 3, "EUR").
			WithQuote("SPY", 500, 2, "USD").
			WithRate("EUR", 0.92, 0.5)
		svc := testutil.NewTestMarketService(t, db, market)

		data, err := svc.Fetch(ctx, []string{"aapl", "ASML", "AAPL"}, nil)
		if err != nil {
			t.Fatalf("Fetch() returned unexpected error: %v", err)
		}

		if len(data.Prices) != 2 {
			t.Errorf("Expected 2 prices, got %d", len(data.Prices))
		}
		if market.Calls("AAPL") != 1 {
			t.Errorf("Expected one request per distinct ticker, got %d for AAPL", market.Calls("AAPL"))
		}
		if data.Benchmark == nil || data.Benchmark.CurrentPrice != 500 {
			t.Errorf("Expected benchmark quote, got %+v", data.Benchmark)
		}
		if data.Rates["USD"] != 1 || data.Rates["EUR"] != 0.92 {
			t.Errorf("Expected USD=1 and EUR from the quote currency, got %v", data.Rates)
		}
		if _, ok := data.FXQuotes["USDEUR=X"]; !ok {
			t.Errorf("Expected the FX quote to be kept, got %v", data.FXQuotes)
		}

		stored, err := repository.NewExchangeRateRepository(db).GetLatestExchangeRate(ctx, "USD", "EUR")
		if err != nil {
			t.Fatalf("Expected fetched rate to be stored: %v", err)
		}
		if stored.Rate != 0.92 || stored.Date.Format("2006-01-02") != testutil.Now.Format("2006-01-02") {
			t.Errorf("Unexpected stored rate: %+v", stored)
		}
	})

	t.Run("failed symbols are skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		market := testutil.NewMockMarketData().
			WithQuote("AAPL", 150, 1, "USD").
			WithError("TSLA", errors.New("rate limited"))
		svc := testutil.NewTestMarketService(t, db, market)

		data, err := svc.Fetch(ctx, []string{"AAPL", "TSLA"}, nil)
		if err != nil {
			t.Fatalf("Fetch() returned unexpected error: %v", err)
		}
		if _, ok := data.Prices["TSLA"]; ok {
			t.Error("Expected failed ticker to be left out")
		}
		if _, ok := data.Prices["AAPL"]; !ok {
			t.Error("Expected AAPL to be present")
		}
		if data.Benchmark != nil {
			t.Errorf("Expected no benchmark, got %+v", data.Benchmark)
		}
	})

	t.Run("stored rate is used when the pair fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateExchangeRate(t, db, "HUF", 350, testutil.Now.AddDate(0, 0, -3))
		testutil.CreateExchangeRate(t, db, "HUF", 360, testutil.Now.AddDate(0, 0, -1))
		svc := testutil.NewTestMarketService(t, db, testutil.NewMockMarketData())

		rates, err := svc.Rates(ctx, []string{"huf", "JPY"})
		if err != nil {
			t.Fatalf("Rates() returned unexpected error: %v", err)
		}
		if rates["HUF"] != 360 {
			t.Errorf("Expected the latest stored HUF rate, got %v", rates["HUF"])
		}
		if rates.Has("JPY") {
			t.Errorf("Expected no JPY rate, got %v", rates["JPY"])
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db, testutil.NewMockMarketData().WithQuote("AAPL", 1, 0, "USD"))

		cctx, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()
		<-cctx.Done()

		if _, err := svc.Fetch(cctx, []string{"AAPL"}, nil); err == nil {
			t.Error("Expected an error for a cancelled context")
		}
	})
}
