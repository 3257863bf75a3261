package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
)

// TradeService handles the trade log of a portfolio. Trades are never edited in place field
// by field: a correction replaces the whole record.
type TradeService struct {
	tradeRepo     *repository.TradeRepository
	portfolioRepo *repository.PortfolioRepository
	logger        *logging.Logger
	now           func() time.Time
}

// NewTradeService creates a new TradeService with the provided repository dependencies.
func NewTradeService(
	tradeRepo *repository.TradeRepository,
	portfolioRepo *repository.PortfolioRepository,
	logger *logging.Logger,
) *TradeService {
	return &TradeService{
		tradeRepo:     tradeRepo,
		portfolioRepo: portfolioRepo,
		logger:        logger.WithComponent("trade"),
		now:           time.Now,
	}
}

// WithClock replaces the clock that stamps new trades.
func (s *TradeService) WithClock(now func() time.Time) *TradeService {
	s.now = now
	return s
}

// GetTrades returns the trades of a portfolio in execution order.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *TradeService) GetTrades(ctx context.Context, portfolioID string) ([]model.Trade, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.tradeRepo.GetTrades(ctx, portfolioID)
}

// GetTrade retrieves a single trade by its ID.
func (s *TradeService) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	return s.tradeRepo.GetTrade(ctx, tradeID)
}

// CreateTrade records a new trade in an existing portfolio.
// The request is expected to be validated already.
func (s *TradeService) CreateTrade(ctx context.Context, req request.CreateTradeRequest) (*model.Trade, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, req.PortfolioID); err != nil {
		return nil, err
	}

	trade, err := tradeFromRequest(req.TradeRequest)
	if err != nil {
		return nil, err
	}
	trade.ID = uuid.New().String()
	trade.PortfolioID = req.PortfolioID
	trade.CreatedAt = s.now().UTC()

	if err := s.tradeRepo.InsertTrade(ctx, &trade); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("portfolio_id", trade.PortfolioID).
		Str("trade_id", trade.ID).
		Str("ticker", trade.Ticker).
		Str("action", string(trade.Action)).
		Float64("quantity", trade.Quantity).
		Msg("trade recorded")

	return &trade, nil
}

// UpdateTrade replaces an existing trade with the contents of req, keeping its ID,
// portfolio and creation time.
// Returns ErrTradeNotFound if the trade does not exist.
func (s *TradeService) UpdateTrade(ctx context.Context, tradeID string, req request.UpdateTradeRequest) (*model.Trade, error) {
	existing, err := s.tradeRepo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	trade, err := tradeFromRequest(req.TradeRequest)
	if err != nil {
		return nil, err
	}
	trade.ID = existing.ID
	trade.PortfolioID = existing.PortfolioID
	trade.CreatedAt = existing.CreatedAt

	if err := s.tradeRepo.UpdateTrade(ctx, &trade); err != nil {
		return nil, err
	}

	s.logger.Info().Str("trade_id", trade.ID).Str("ticker", trade.Ticker).Msg("trade corrected")
	return &trade, nil
}

// DeleteTrade removes a trade; it no longer contributes to any valuation.
func (s *TradeService) DeleteTrade(ctx context.Context, tradeID string) error {
	if err := s.tradeRepo.DeleteTrade(ctx, tradeID); err != nil {
		return err
	}
	s.logger.Info().Str("trade_id", tradeID).Msg("trade deleted")
	return nil
}

// tradeFromRequest normalizes the ticker, action and currency of a trade request.
func tradeFromRequest(req request.TradeRequest) (model.Trade, error) {
	executedAt, err := repository.ParseTime(req.ExecutedAt)
	if err != nil {
		return model.Trade{}, fmt.Errorf("invalid executedAt: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = model.BaseCurrency
	}

	return model.Trade{
		Ticker:        strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Action:        model.TradeAction(strings.ToUpper(strings.TrimSpace(req.Action))),
		Quantity:      req.Quantity,
		PricePerShare: req.PricePerShare,
		Fees:          req.Fees,
		Currency:      currency,
		ExecutedAt:    executedAt,
		Note:          req.Note,
	}, nil
}
