package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
	"github.com/ndewijer/portfolio-valuation/internal/valuation"
)

// PortfolioService handles portfolio-related business logic operations.
// It loads trades and cash from the repositories, gathers market data through the
// MarketService and hands both to the valuation core.
type PortfolioService struct {
	portfolioRepo   *repository.PortfolioRepository
	tradeRepo       *repository.TradeRepository
	cashRepo        *repository.CashRepository
	performanceRepo *repository.PerformanceRepository
	market          *MarketService
	displayCurrency string
	logger          *logging.Logger
	now             func() time.Time
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
// displayCurrency is used by Summary when the caller does not ask for a currency.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	tradeRepo *repository.TradeRepository,
	cashRepo *repository.CashRepository,
	performanceRepo *repository.PerformanceRepository,
	market *MarketService,
	displayCurrency string,
	logger *logging.Logger,
) *PortfolioService {
	if displayCurrency == "" {
		displayCurrency = model.BaseCurrency
	}
	return &PortfolioService{
		portfolioRepo:   portfolioRepo,
		tradeRepo:       tradeRepo,
		cashRepo:        cashRepo,
		performanceRepo: performanceRepo,
		market:          market,
		displayCurrency: strings.ToUpper(displayCurrency),
		logger:          logger.WithComponent("portfolio"),
		now:             time.Now,
	}
}

// WithClock replaces the clock that stamps summaries and resolves performance periods.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// GetAllPortfolios retrieves portfolios ordered by name. Archived portfolios are only
// included when includeArchived is set.
func (s *PortfolioService) GetAllPortfolios(ctx context.Context, includeArchived bool) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{
		IncludeArchived: includeArchived,
	})
}

// GetPortfolio retrieves a single portfolio by its ID.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// CreatePortfolio creates a new, unarchived portfolio.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	portfolio := &model.Portfolio{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, portfolio); err != nil {
		return nil, err
	}

	s.logger.Info().Str("portfolio_id", portfolio.ID).Str("name", portfolio.Name).Msg("portfolio created")
	return portfolio, nil
}

// UpdatePortfolio applies the fields present in req to an existing portfolio.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *PortfolioService) UpdatePortfolio(ctx context.Context, portfolioID string, req request.UpdatePortfolioRequest) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		portfolio.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		portfolio.Description = *req.Description
	}
	if req.IsArchived != nil {
		portfolio.IsArchived = *req.IsArchived
	}

	if err := s.portfolioRepo.UpdatePortfolio(ctx, &portfolio); err != nil {
		return nil, err
	}

	return &portfolio, nil
}

// DeletePortfolio removes a portfolio together with its trades, cash and history.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if err := s.portfolioRepo.DeletePortfolio(ctx, portfolioID); err != nil {
		return err
	}
	s.logger.Info().Str("portfolio_id", portfolioID).Msg("portfolio deleted")
	return nil
}

// Holdings returns the open positions of a portfolio valued at the latest market prices.
func (s *PortfolioService) Holdings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	v, err := s.valuate(ctx, portfolioID, time.Time{}, nil)
	if err != nil {
		return nil, err
	}
	return v.holdings, nil
}

// RealizedGains returns one FIFO realized gain record per SELL trade of a portfolio.
// Only FX rates are fetched; realized figures do not depend on current prices.
func (s *PortfolioService) RealizedGains(ctx context.Context, portfolioID string) ([]model.RealizedGainRecord, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.GetTrades(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	rates, err := s.market.Rates(ctx, tradeCurrencies(trades))
	if err != nil {
		return nil, err
	}

	return valuation.ComputeRealizedGains(trades, rates), nil
}

// Summary values a portfolio and renders its headline figures in currency. An empty
// currency uses the configured display currency; a currency without a known rate falls
// back to USD.
func (s *PortfolioService) Summary(ctx context.Context, portfolioID, currency string) (model.PortfolioSummary, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.displayCurrency
	}

	v, err := s.valuate(ctx, portfolioID, time.Time{}, []string{currency})
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := valuation.BuildSummary(valuation.SummaryInput{
		Holdings:      v.holdings,
		Rates:         v.rates,
		CashBalances:  v.cash,
		FXQuotes:      v.market.FXQuotes,
		RealizedGains: valuation.ComputeRealizedGains(v.trades, v.rates),
		AsOf:          s.now().UTC(),
	})

	if !v.rates.Has(currency) {
		s.logger.Warn().
			Str("portfolio_id", portfolioID).
			Str("currency", currency).
			Msg("no rate for display currency, formatting in USD")
		currency = model.BaseCurrency
	}
	display := valuation.FormatSummary(summary, currency, v.rates)
	summary.Display = &display

	return summary, nil
}

// PerformanceQuery selects the window of a performance chart. An explicit date range wins
// over Period; an empty query covers the whole history.
type PerformanceQuery struct {
	Period    string
	StartDate time.Time
	EndDate   time.Time
}

// Performance returns the stored performance history of a portfolio inside the requested
// window, re-based so that portfolio and benchmark both start at 0%.
//
// Returns ErrInvalidPeriod for an unknown period name and ErrInvalidDateRange when the
// start date lies after the end date.
func (s *PortfolioService) Performance(ctx context.Context, portfolioID string, q PerformanceQuery) (model.NormalizedSeries, error) {
	start, end := q.StartDate, q.EndDate
	if start.IsZero() && end.IsZero() {
		period := valuation.PeriodAll
		if q.Period != "" {
			p, err := valuation.ParsePeriod(q.Period)
			if err != nil {
				return model.NormalizedSeries{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidPeriod, q.Period)
			}
			period = p
		}
		start = valuation.WindowStart(period, s.now().UTC())
	} else if !start.IsZero() && !end.IsZero() && start.After(end) {
		return model.NormalizedSeries{}, apperrors.ErrInvalidDateRange
	}

	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return model.NormalizedSeries{}, err
	}

	var series []model.PerformanceEntry
	err := s.performanceRepo.GetPerformanceHistory(ctx, portfolioID, start, end, func(entry model.PerformanceEntry) error {
		series = append(series, entry)
		return nil
	})
	if err != nil {
		return model.NormalizedSeries{}, err
	}

	return valuation.NormalizePerformance(valuation.FilterWindow(series, start, end)), nil
}

// portfolioValuation is everything loaded to value one portfolio.
type portfolioValuation struct {
	trades   []model.Trade
	cash     map[string]float64
	market   model.MarketData
	rates    valuation.Rates
	holdings []model.Holding
}

// valuate loads the trades and cash of a portfolio, fetches market data for its tickers and
// currencies (plus extraCurrencies) and aggregates the holdings. A non-zero until restricts
// the trades to those executed at or before it.
func (s *PortfolioService) valuate(ctx context.Context, portfolioID string, until time.Time, extraCurrencies []string) (portfolioValuation, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return portfolioValuation{}, err
	}

	var trades []model.Trade
	var err error
	if until.IsZero() {
		trades, err = s.tradeRepo.GetTrades(ctx, portfolioID)
	} else {
		trades, err = s.tradeRepo.GetTradesUntil(ctx, portfolioID, until)
	}
	if err != nil {
		return portfolioValuation{}, err
	}

	balances, err := s.cashRepo.GetCashBalances(ctx, portfolioID)
	if err != nil {
		return portfolioValuation{}, err
	}

	cash := make(map[string]float64, len(balances))
	currencies := append(tradeCurrencies(trades), extraCurrencies...)
	for _, b := range balances {
		cash[b.Currency] += b.Amount
		currencies = append(currencies, b.Currency)
	}

	data, err := s.market.Fetch(ctx, tradeTickers(trades), currencies)
	if err != nil {
		return portfolioValuation{}, err
	}
	rates := valuation.NewRates(data.Rates)

	return portfolioValuation{
		trades:   trades,
		cash:     cash,
		market:   data,
		rates:    rates,
		holdings: valuation.AggregateHoldings(trades, data.Prices, rates),
	}, nil
}

func tradeTickers(trades []model.Trade) []string {
	tickers := make([]string, 0, len(trades))
	for _, t := range trades {
		tickers = append(tickers, t.Ticker)
	}
	return normalizeSymbols(tickers)
}

func tradeCurrencies(trades []model.Trade) []string {
	currencies := make([]string, 0, len(trades))
	for _, t := range trades {
		currencies = append(currencies, t.Currency)
	}
	return normalizeSymbols(currencies)
}
