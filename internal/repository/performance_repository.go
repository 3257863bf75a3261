package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// PerformanceRepository provides data access methods for the performance_history table.
type PerformanceRepository struct {
	db *sql.DB
}

// NewPerformanceRepository creates a new repository instance.
func NewPerformanceRepository(db *sql.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

const performanceColumns = `id, portfolio_id, date, value, cost_basis, net_flow, twr, benchmark_twr, benchmark_price, calculated_at`

// GetPerformanceHistory streams the stored daily snapshots of a portfolio in ascending date
// order to callback.
//
// Parameters:
//   - portfolioID: portfolio to read
//   - startDate: first date to include (inclusive), zero for no lower bound
//   - endDate: last date to include (inclusive), zero for no upper bound
//   - callback: called once per record; a returned error stops the iteration
//
// Returns an error if the query fails or if the callback returns an error during processing.
func (r *PerformanceRepository) GetPerformanceHistory(
	ctx context.Context,
	portfolioID string,
	startDate, endDate time.Time,
	callback func(entry model.PerformanceEntry) error,
) error {
	query := `
		SELECT ` + performanceColumns + `
		FROM performance_history
		WHERE portfolio_id = ?
	`
	args := []any{portfolioID}

	if !startDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, formatDate(startDate))
	}
	if !endDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, formatDate(endDate))
	}
	query += " ORDER BY date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query performance_history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanPerformanceEntry(rows)
		if err != nil {
			return err
		}

		if err := callback(entry); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

// GetLatestBefore returns the most recent snapshot dated strictly before date.
// Returns ErrPerformanceEntryNotFound when the portfolio has no earlier snapshot.
func (r *PerformanceRepository) GetLatestBefore(ctx context.Context, portfolioID string, date time.Time) (model.PerformanceEntry, error) {
	query := `
		SELECT ` + performanceColumns + `
		FROM performance_history
		WHERE portfolio_id = ?
		AND date < ?
		ORDER BY date DESC
		LIMIT 1
	`

	entry, err := scanPerformanceEntry(r.db.QueryRowContext(ctx, query, portfolioID, formatDate(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.PerformanceEntry{}, apperrors.ErrPerformanceEntryNotFound
	}
	if err != nil {
		return model.PerformanceEntry{}, err
	}

	return entry, nil
}

// GetBaseBenchmarkPrice returns the benchmark price of the earliest snapshot that recorded
// one. That price anchors the benchmark's cumulative return. Returns 0 when none exists.
func (r *PerformanceRepository) GetBaseBenchmarkPrice(ctx context.Context, portfolioID string) (float64, error) {
	query := `
		SELECT benchmark_price
		FROM performance_history
		WHERE portfolio_id = ?
		AND benchmark_price > 0
		ORDER BY date ASC
		LIMIT 1
	`

	var price float64
	err := r.db.QueryRowContext(ctx, query, portfolioID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query base benchmark price: %w", err)
	}

	return price, nil
}

// UpsertPerformanceEntry stores the snapshot for (portfolio, date), replacing the figures of
// an existing snapshot for the same day while keeping its ID.
func (r *PerformanceRepository) UpsertPerformanceEntry(ctx context.Context, e *model.PerformanceEntry) error {
	query := `
		INSERT INTO performance_history (` + performanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, date) DO UPDATE SET
			value = excluded.value,
			cost_basis = excluded.cost_basis,
			net_flow = excluded.net_flow,
			twr = excluded.twr,
			benchmark_twr = excluded.benchmark_twr,
			benchmark_price = excluded.benchmark_price,
			calculated_at = excluded.calculated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.PortfolioID,
		formatDate(e.Date),
		e.Value,
		e.CostBasis,
		e.NetFlow,
		e.TWR,
		e.BenchmarkTWR,
		e.BenchmarkPrice,
		formatTimestamp(e.CalculatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert performance_history: %w", err)
	}

	return nil
}

func scanPerformanceEntry(row rowScanner) (model.PerformanceEntry, error) {
	var e model.PerformanceEntry
	var dateStr, calculatedAtStr string

	err := row.Scan(
		&e.ID,
		&e.PortfolioID,
		&dateStr,
		&e.Value,
		&e.CostBasis,
		&e.NetFlow,
		&e.TWR,
		&e.BenchmarkTWR,
		&e.BenchmarkPrice,
		&calculatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PerformanceEntry{}, err
	}
	if err != nil {
		return model.PerformanceEntry{}, fmt.Errorf("failed to scan row: %w", err)
	}

	e.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.PerformanceEntry{}, fmt.Errorf("failed to parse date: %w", err)
	}

	e.CalculatedAt, err = ParseTime(calculatedAtStr)
	if err != nil {
		return model.PerformanceEntry{}, fmt.Errorf("failed to parse calculated_at: %w", err)
	}

	return e, nil
}
