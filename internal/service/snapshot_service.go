package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
	"github.com/ndewijer/portfolio-valuation/internal/valuation"
)

// SnapshotService records one performance_history row per portfolio and day. Each row
// chains the portfolio's time-weighted return onto the previous row and stores the
// benchmark's return since the portfolio's first recorded benchmark price.
type SnapshotService struct {
	portfolios      *PortfolioService
	portfolioRepo   *repository.PortfolioRepository
	performanceRepo *repository.PerformanceRepository
	logger          *logging.Logger
	now             func() time.Time
}

// NewSnapshotService creates a SnapshotService that values portfolios through portfolios.
func NewSnapshotService(
	portfolios *PortfolioService,
	portfolioRepo *repository.PortfolioRepository,
	performanceRepo *repository.PerformanceRepository,
	logger *logging.Logger,
) *SnapshotService {
	return &SnapshotService{
		portfolios:      portfolios,
		portfolioRepo:   portfolioRepo,
		performanceRepo: performanceRepo,
		logger:          logger.WithComponent("snapshot"),
		now:             time.Now,
	}
}

// WithClock replaces the clock used for scheduled runs and the calculated_at stamp.
func (s *SnapshotService) WithClock(now func() time.Time) *SnapshotService {
	s.now = now
	return s
}

// RecordSnapshot values a portfolio with the trades executed up to asOf and stores the
// result as the snapshot of asOf's day, replacing an earlier snapshot of that day.
//
// The snapshot covers the equity positions only:
//   - Value is the market value of the open holdings, CostBasis their invested amount
//   - NetFlow is the day's buy cost (fees included) minus its sell proceeds (fees deducted)
//   - TWR chains onto the latest earlier snapshot and starts at 0 for the first one
//   - BenchmarkTWR is measured from the first stored benchmark price; when the benchmark
//     quote is unavailable the previous snapshot's benchmark figures are carried forward
func (s *SnapshotService) RecordSnapshot(ctx context.Context, portfolioID string, asOf time.Time) (*model.PerformanceEntry, error) {
	asOf = asOf.UTC()
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	v, err := s.portfolios.valuate(ctx, portfolioID, asOf, nil)
	if err != nil {
		return nil, err
	}

	entry := &model.PerformanceEntry{
		ID:           uuid.New().String(),
		PortfolioID:  portfolioID,
		Date:         day,
		NetFlow:      netFlowOn(v.trades, day, v.rates),
		CalculatedAt: s.now().UTC(),
	}
	for _, h := range v.holdings {
		entry.Value += h.MarketValue
		entry.CostBasis += h.TotalInvested
	}

	prev, err := s.performanceRepo.GetLatestBefore(ctx, portfolioID, day)
	hasPrev := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrPerformanceEntryNotFound) {
		return nil, err
	}
	if hasPrev {
		entry.TWR = valuation.AdvanceTWR(prev.TWR, prev.Value, entry.Value, entry.NetFlow)
	}

	if v.market.Benchmark != nil && v.market.Benchmark.CurrentPrice > 0 {
		entry.BenchmarkPrice = v.market.Benchmark.CurrentPrice
		base, err := s.performanceRepo.GetBaseBenchmarkPrice(ctx, portfolioID)
		if err != nil {
			return nil, err
		}
		entry.BenchmarkTWR = valuation.CumulativeReturn(entry.BenchmarkPrice, base)
	} else if hasPrev {
		s.logger.Warn().Str("portfolio_id", portfolioID).Msg("benchmark quote unavailable, carrying previous benchmark return")
		entry.BenchmarkPrice = prev.BenchmarkPrice
		entry.BenchmarkTWR = prev.BenchmarkTWR
	}

	if err := s.performanceRepo.UpsertPerformanceEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Time("date", day).
		Float64("value", entry.Value).
		Float64("twr", entry.TWR).
		Msg("performance snapshot recorded")

	return entry, nil
}

// RecordAll records a snapshot for every unarchived portfolio. A failing portfolio does not
// stop the others; all failures are returned joined.
func (s *SnapshotService) RecordAll(ctx context.Context, asOf time.Time) error {
	portfolios, err := s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{})
	if err != nil {
		return err
	}

	var errs []error
	for _, p := range portfolios {
		if _, err := s.RecordSnapshot(ctx, p.ID, asOf); err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", p.ID).Msg("failed to record snapshot")
			errs = append(errs, fmt.Errorf("portfolio %s: %w", p.ID, err))
		}
	}

	return errors.Join(errs...)
}

// Start schedules RecordAll on the standard 5-field cron expression schedule and starts the
// scheduler. The caller stops it with Stop on shutdown.
func (s *SnapshotService) Start(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLogger(cron.PrintfLogger(s.logger)))

	_, err := c.AddFunc(schedule, func() {
		start := time.Now()
		if err := s.RecordAll(context.Background(), s.now()); err != nil {
			s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("scheduled snapshot run finished with errors")
			return
		}
		s.logger.Info().Dur("duration", time.Since(start)).Msg("scheduled snapshot run finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	c.Start()
	s.logger.Info().Str("schedule", schedule).Msg("snapshot scheduler started")

	return c, nil
}

// netFlowOn sums the USD cash that went into the positions on day: buys add their cost
// including fees, sells subtract their proceeds net of fees.
func netFlowOn(trades []model.Trade, day time.Time, rates valuation.Rates) float64 {
	var flow float64
	for _, t := range trades {
		executed := t.ExecutedAt.UTC()
		if executed.Year() != day.Year() || executed.YearDay() != day.YearDay() {
			continue
		}
		gross := t.Quantity * t.PricePerShare
		switch t.Action {
		case model.ActionBuy:
			flow += rates.ToUSD(gross+t.Fees, t.Currency)
		case model.ActionSell:
			flow -= rates.ToUSD(gross-t.Fees, t.Currency)
		}
	}
	return flow
}
