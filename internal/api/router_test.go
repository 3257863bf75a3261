package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/portfolio-valuation/internal/api"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testutil.SetupTestDB(t)
	market := testutil.NewMockMarketData().WithQuote("AAPL", 110, 1, "USD")

	services := api.Services{
		System:    testutil.NewTestSystemService(t, db),
		Portfolio: testutil.NewTestPortfolioService(t, db, market),
		Trade:     testutil.NewTestTradeService(t, db),
		Cash:      testutil.NewTestCashService(t, db),
		Snapshot:  testutil.NewTestSnapshotService(t, db, market),
	}

	server := httptest.NewServer(api.NewRouter(services, testutil.NewTestConfig(), logging.NewSilent()))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestRouter_EndToEnd drives a portfolio through the HTTP API.
//
// WHY: Handler tests bypass routing. This checks that every route is mounted under the
// expected path and that the id middleware guards it.
func TestRouter_EndToEnd(t *testing.T) {
	server := newTestServer(t)

	resp := do(t, http.MethodPost, server.URL+"/api/portfolio/", map[string]any{"name": "Routed"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create portfolio: status %d", resp.StatusCode)
	}
	var portfolio model.Portfolio
	if err := json.NewDecoder(resp.Body).Decode(&portfolio); err != nil {
		t.Fatalf("decode portfolio: %v", err)
	}
	base := server.URL + "/api/portfolio/" + portfolio.ID

	resp = do(t, http.MethodPost, server.URL+"/api/trade/", map[string]any{
		"portfolioId":   portfolio.ID,
		"ticker":        "AAPL",
		"action":        "BUY",
		"quantity":      10,
		"pricePerShare": 100,
		"executedAt":    "2024-01-02",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create trade: status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, base+"/cash", map[string]any{"currency": "USD", "amount": 100})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set cash: status %d", resp.StatusCode)
	}

	routes := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/system/health", http.StatusOK},
		{http.MethodGet, "/api/portfolio/", http.StatusOK},
		{http.MethodGet, base[len(server.URL):], http.StatusOK},
		{http.MethodGet, base[len(server.URL):] + "/holdings", http.StatusOK},
		{http.MethodGet, base[len(server.URL):] + "/summary", http.StatusOK},
		{http.MethodGet, base[len(server.URL):] + "/realized", http.StatusOK},
		{http.MethodGet, base[len(server.URL):] + "/performance?period=1Y", http.StatusOK},
		{http.MethodGet, base[len(server.URL):] + "/cash", http.StatusOK},
		{http.MethodGet, base[len(server.URL):] + "/trades", http.StatusOK},
		{http.MethodPost, base[len(server.URL):] + "/snapshot", http.StatusCreated},
		{http.MethodGet, "/api/portfolio/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/trade/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/portfolio/" + testutil.MakeID() + "/summary", http.StatusNotFound},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp := do(t, rt.method, server.URL+rt.path, nil)
			if resp.StatusCode != rt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, rt.want)
			}
		})
	}

	t.Run("summary totals", func(t *testing.T) {
		resp := do(t, http.MethodGet, base+"/summary", nil)
		var summary model.PortfolioSummary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		if summary.TotalPortfolioValue != 1200 || summary.TotalGain != 100 {
			t.Errorf("value = %v, gain = %v; want 1200 and 100", summary.TotalPortfolioValue, summary.TotalGain)
		}
	})

	t.Run("delete cascades", func(t *testing.T) {
		resp := do(t, http.MethodDelete, base, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete: status %d", resp.StatusCode)
		}
		resp = do(t, http.MethodGet, base+"/trades", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("trades after delete: status %d, want 404", resp.StatusCode)
		}
	})
}
