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

// TradeRepository provides data access methods for the trade table.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeColumns = `id, portfolio_id, ticker, action, quantity, price_per_share, fees, currency, executed_at, note, created_at`

// GetTrades retrieves every trade of a portfolio in execution order.
// Trades executed at the same instant keep their insertion order.
// Returns an empty slice if the portfolio has no trades.
func (r *TradeRepository) GetTrades(ctx context.Context, portfolioID string) ([]model.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trade
		WHERE portfolio_id = ?
		ORDER BY executed_at ASC, created_at ASC, rowid ASC
	`

	return r.queryTrades(ctx, query, portfolioID)
}

// GetTradesUntil retrieves the trades of a portfolio executed at or before until, in
// execution order. It is used to rebuild positions as they stood at a past instant.
func (r *TradeRepository) GetTradesUntil(ctx context.Context, portfolioID string, until time.Time) ([]model.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trade
		WHERE portfolio_id = ?
		AND executed_at <= ?
		ORDER BY executed_at ASC, created_at ASC, rowid ASC
	`

	return r.queryTrades(ctx, query, portfolioID, formatTimestamp(until))
}

// GetTrade retrieves a single trade.
// Returns ErrTradeNotFound if no trade with the given ID exists.
func (r *TradeRepository) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	if tradeID == "" {
		return model.Trade{}, apperrors.ErrInvalidTradeID
	}

	query := `SELECT ` + tradeColumns + ` FROM trade WHERE id = ?`

	t, err := scanTrade(r.db.QueryRowContext(ctx, query, tradeID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trade{}, apperrors.ErrTradeNotFound
	}
	if err != nil {
		return model.Trade{}, err
	}

	return t, nil
}

// InsertTrade stores a new trade.
func (r *TradeRepository) InsertTrade(ctx context.Context, t *model.Trade) error {
	query := `
		INSERT INTO trade (` + tradeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.Ticker,
		string(t.Action),
		t.Quantity,
		t.PricePerShare,
		t.Fees,
		t.Currency,
		formatTimestamp(t.ExecutedAt),
		t.Note,
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

// UpdateTrade replaces every mutable field of an existing trade.
// Returns ErrTradeNotFound if no trade with the given ID exists.
func (r *TradeRepository) UpdateTrade(ctx context.Context, t *model.Trade) error {
	query := `
		UPDATE trade
		SET ticker = ?, action = ?, quantity = ?, price_per_share = ?, fees = ?,
		    currency = ?, executed_at = ?, note = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Ticker,
		string(t.Action),
		t.Quantity,
		t.PricePerShare,
		t.Fees,
		t.Currency,
		formatTimestamp(t.ExecutedAt),
		t.Note,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrTradeNotFound
	}

	return nil
}

// DeleteTrade removes a trade.
// Returns ErrTradeNotFound if no trade with the given ID exists.
func (r *TradeRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trade WHERE id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrTradeNotFound
	}

	return nil
}

func (r *TradeRepository) queryTrades(ctx context.Context, query string, args ...any) ([]model.Trade, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

func scanTrade(row rowScanner) (model.Trade, error) {
	var t model.Trade
	var action, executedAtStr, createdAtStr string

	err := row.Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Ticker,
		&action,
		&t.Quantity,
		&t.PricePerShare,
		&t.Fees,
		&t.Currency,
		&executedAtStr,
		&t.Note,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trade{}, err
	}
	if err != nil {
		return model.Trade{}, fmt.Errorf("failed to scan trade table results: %w", err)
	}
	t.Action = model.TradeAction(action)

	t.ExecutedAt, err = ParseTime(executedAtStr)
	if err != nil {
		return model.Trade{}, fmt.Errorf("failed to parse executed_at: %w", err)
	}

	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Trade{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return t, nil
}
