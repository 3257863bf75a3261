package database

import (
	"path/filepath"
	"testing"

	"github.com/ndewijer/portfolio-valuation/internal/logging"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	logger := logging.NewSilent()

	if err := Migrate(db, logger); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	t.Run("creates every table", func(t *testing.T) {
		for _, table := range []string{"portfolio", "trade", "cash_balance", "exchange_rate", "performance_history"} {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			if err != nil {
				t.Errorf("table %s missing: %v", table, err)
			}
		}
	})

	t.Run("running twice is a no-op", func(t *testing.T) {
		if err := Migrate(db, logger); err != nil {
			t.Errorf("second Migrate() error = %v", err)
		}
	})

	t.Run("foreign keys are enforced", func(t *testing.T) {
		_, err := db.Exec(`
			INSERT INTO trade (id, portfolio_id, ticker, action, quantity, price_per_share, executed_at, created_at)
			VALUES ('t1', 'missing', 'AAPL', 'BUY', 1, 1, '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')
		`)
		if err == nil {
			t.Error("expected foreign key violation, got nil")
		}
	})

	t.Run("health check", func(t *testing.T) {
		if err := HealthCheck(db); err != nil {
			t.Errorf("HealthCheck() error = %v", err)
		}
	})
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := HealthCheck(db); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
