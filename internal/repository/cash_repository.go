package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// CashRepository provides data access methods for the cash_balance table.
type CashRepository struct {
	db *sql.DB
}

// NewCashRepository creates a new CashRepository with the provided database connection.
func NewCashRepository(db *sql.DB) *CashRepository {
	return &CashRepository{db: db}
}

// GetCashBalances retrieves the cash balances of a portfolio ordered by currency.
// Returns an empty slice if the portfolio holds no cash.
func (r *CashRepository) GetCashBalances(ctx context.Context, portfolioID string) ([]model.CashBalance, error) {
	query := `
		SELECT portfolio_id, currency, amount, updated_at
		FROM cash_balance
		WHERE portfolio_id = ?
		ORDER BY currency ASC
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_balance table: %w", err)
	}
	defer rows.Close()

	balances := []model.CashBalance{}

	for rows.Next() {
		var b model.CashBalance
		var updatedAtStr string

		if err := rows.Scan(&b.PortfolioID, &b.Currency, &b.Amount, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan cash_balance table results: %w", err)
		}

		b.UpdatedAt, err = ParseTime(updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		balances = append(balances, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_balance table: %w", err)
	}

	return balances, nil
}

// UpsertCashBalance sets the balance held in one currency, creating the row when needed.
func (r *CashRepository) UpsertCashBalance(ctx context.Context, b *model.CashBalance) error {
	query := `
		INSERT INTO cash_balance (portfolio_id, currency, amount, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (portfolio_id, currency) DO UPDATE SET
			amount = excluded.amount,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, b.PortfolioID, b.Currency, b.Amount, formatTimestamp(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert cash_balance: %w", err)
	}

	return nil
}
