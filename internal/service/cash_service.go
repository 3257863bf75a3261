package service

import (
	"context"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
)

// CashService manages the per-currency cash balances of a portfolio.
type CashService struct {
	cashRepo      *repository.CashRepository
	portfolioRepo *repository.PortfolioRepository
	logger        *logging.Logger
	now           func() time.Time
}

// NewCashService creates a new CashService with the provided repository dependencies.
func NewCashService(
	cashRepo *repository.CashRepository,
	portfolioRepo *repository.PortfolioRepository,
	logger *logging.Logger,
) *CashService {
	return &CashService{
		cashRepo:      cashRepo,
		portfolioRepo: portfolioRepo,
		logger:        logger.WithComponent("cash"),
		now:           time.Now,
	}
}

// WithClock replaces the clock that stamps balance updates.
func (s *CashService) WithClock(now func() time.Time) *CashService {
	s.now = now
	return s
}

// GetBalances returns the cash balances of a portfolio ordered by currency.
func (s *CashService) GetBalances(ctx context.Context, portfolioID string) ([]model.CashBalance, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.cashRepo.GetCashBalances(ctx, portfolioID)
}

// SetBalance overwrites the amount held in one currency. Negative amounts are stored as
// given; a zero amount keeps the row so the currency stays listed.
func (s *CashService) SetBalance(ctx context.Context, portfolioID string, req request.SetCashBalanceRequest) (*model.CashBalance, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}

	balance := &model.CashBalance{
		PortfolioID: portfolioID,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Amount:      req.Amount,
		UpdatedAt:   s.now().UTC(),
	}

	if err := s.cashRepo.UpsertCashBalance(ctx, balance); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Str("currency", balance.Currency).
		Float64("amount", balance.Amount).
		Msg("cash balance set")

	return balance, nil
}
