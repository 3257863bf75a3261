package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/portfolio-valuation/internal/api/handlers"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/testutil"
)

// TestCashHandler tests reading and overwriting cash balances.
//
// WHY: Cash is set, not accumulated. A PUT must replace the balance of its currency and
// leave the other currencies alone.
func TestCashHandler(t *testing.T) {
	t.Run("PUT overwrites and GET lists balances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCashHandler(testutil.NewTestCashService(t, db))
		p := testutil.CreatePortfolio(t, db, "Cash")
		testutil.CreateCashBalance(t, db, p.ID, "USD", 500)
		params := map[string]string{"uuid": p.ID}

		for _, amount := range []float64{100, 250.5} {
			w := httptest.NewRecorder()
			handler.SetBalance(w, testutil.NewJSONRequestWithURLParams(http.MethodPut, "/cash",
				map[string]any{"currency": "EUR", "amount": amount}, params))
			if w.Code != http.StatusOK {
				t.Fatalf("PUT: expected status 200, got %d: %s", w.Code, w.Body.String())
			}
		}

		w := httptest.NewRecorder()
		handler.Balances(w, testutil.NewRequestWithURLParams(http.MethodGet, "/cash", params))
		if w.Code != http.StatusOK {
			t.Fatalf("GET: expected status 200, got %d", w.Code)
		}

		var balances []model.CashBalance
		if err := json.NewDecoder(w.Body).Decode(&balances); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		got := make(map[string]float64, len(balances))
		for _, b := range balances {
			got[b.Currency] = b.Amount
		}
		if len(got) != 2 || got["EUR"] != 250.5 || got["USD"] != 500 {
			t.Errorf("Unexpected balances: %v", got)
		}
	})

	t.Run("negative balance is accepted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCashHandler(testutil.NewTestCashService(t, db))
		p := testutil.CreatePortfolio(t, db, "Margin")

		w := httptest.NewRecorder()
		handler.SetBalance(w, testutil.NewJSONRequestWithURLParams(http.MethodPut, "/cash",
			map[string]any{"currency": "USD", "amount": -75}, map[string]string{"uuid": p.ID}))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid bodies return 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCashHandler(testutil.NewTestCashService(t, db))
		p := testutil.CreatePortfolio(t, db, "Cash")

		for name, body := range map[string]any{
			"empty":            "",
			"malformed":        `{"currency":`,
			"bad currency":     map[string]any{"currency": "EURO", "amount": 1},
			"missing currency": map[string]any{"amount": 1},
		} {
			w := httptest.NewRecorder()
			handler.SetBalance(w, testutil.NewJSONRequestWithURLParams(http.MethodPut, "/cash", body,
				map[string]string{"uuid": p.ID}))
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d", name, w.Code)
			}
		}
	})

	t.Run("unknown portfolio returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCashHandler(testutil.NewTestCashService(t, db))
		params := map[string]string{"uuid": testutil.MakeID()}

		w := httptest.NewRecorder()
		handler.Balances(w, testutil.NewRequestWithURLParams(http.MethodGet, "/cash", params))
		if w.Code != http.StatusNotFound {
			t.Errorf("GET: expected status 404, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		handler.SetBalance(w, testutil.NewJSONRequestWithURLParams(http.MethodPut, "/cash",
			map[string]any{"currency": "USD", "amount": 1}, params))
		if w.Code != http.StatusNotFound {
			t.Errorf("PUT: expected status 404, got %d", w.Code)
		}
	})
}
