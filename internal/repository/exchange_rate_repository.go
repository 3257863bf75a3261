package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// ExchangeRateRepository provides data access methods for the exchange_rate table.
// One rate is kept per currency pair and day.
type ExchangeRateRepository struct {
	db *sql.DB
}

// NewExchangeRateRepository creates a new ExchangeRateRepository with the provided database connection.
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// UpsertExchangeRate stores the rate of a pair for a day, replacing an earlier rate of the
// same day.
func (r *ExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate *model.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rate (id, from_currency, to_currency, rate, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (from_currency, to_currency, date) DO UPDATE SET
			rate = excluded.rate
	`

	_, err := r.db.ExecContext(ctx, query,
		rate.ID,
		rate.FromCurrency,
		rate.ToCurrency,
		rate.Rate,
		formatDate(rate.Date),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange_rate: %w", err)
	}

	return nil
}

// GetLatestExchangeRate returns the most recently dated rate of a pair.
// Returns ErrExchangeRateNotFound if the pair was never stored.
func (r *ExchangeRateRepository) GetLatestExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (model.ExchangeRate, error) {
	query := `
		SELECT id, from_currency, to_currency, rate, date
		FROM exchange_rate
		WHERE from_currency = ?
		AND to_currency = ?
		ORDER BY date DESC
		LIMIT 1
	`

	var rate model.ExchangeRate
	var dateStr string

	err := r.db.QueryRowContext(ctx, query, fromCurrency, toCurrency).Scan(
		&rate.ID,
		&rate.FromCurrency,
		&rate.ToCurrency,
		&rate.Rate,
		&dateStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to query exchange_rate: %w", err)
	}

	rate.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return rate, nil
}
