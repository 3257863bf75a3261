package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults when environment is empty", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.MarketData.Timeout != 10*time.Second {
			t.Errorf("Expected 10s timeout, got %s", cfg.MarketData.Timeout)
		}
		if cfg.Valuation.DisplayCurrency != "USD" {
			t.Errorf("Expected USD display currency, got %s", cfg.Valuation.DisplayCurrency)
		}
		if len(cfg.Valuation.FXCurrencies) != 2 {
			t.Errorf("Expected 2 FX currencies, got %v", cfg.Valuation.FXCurrencies)
		}
	})

	t.Run("reads overrides from environment", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("FX_CURRENCIES", "eur, gbp ,")
		t.Setenv("DISPLAY_CURRENCY", "eur")
		t.Setenv("MARKET_DATA_CONCURRENCY", "8")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:8080" {
			t.Errorf("Expected addr localhost:8080, got %s", cfg.Server.Addr)
		}
		if got := cfg.Valuation.FXCurrencies; len(got) != 2 || got[0] != "EUR" || got[1] != "GBP" {
			t.Errorf("Expected [EUR GBP], got %v", got)
		}
		if cfg.Valuation.DisplayCurrency != "EUR" {
			t.Errorf("Expected EUR display currency, got %s", cfg.Valuation.DisplayCurrency)
		}
		if cfg.MarketData.Concurrency != 8 {
			t.Errorf("Expected concurrency 8, got %d", cfg.MarketData.Concurrency)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{name: "timeout", key: "MARKET_DATA_TIMEOUT", value: "soon"},
			{name: "concurrency", key: "MARKET_DATA_CONCURRENCY", value: "many"},
			{name: "zero concurrency", key: "MARKET_DATA_CONCURRENCY", value: "0"},
			{name: "snapshot flag", key: "SNAPSHOT_ENABLED", value: "maybe"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv(tt.key, tt.value)
				if _, err := Load(); err == nil {
					t.Errorf("Expected error for %s=%s", tt.key, tt.value)
				}
			})
		}
	})
}
