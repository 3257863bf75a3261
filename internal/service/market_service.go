package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/config"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/model"
	"github.com/ndewijer/portfolio-valuation/internal/repository"
	"github.com/ndewijer/portfolio-valuation/internal/valuation"
)

// MarketDataProvider fetches a single quote. The yahoo.FinanceClient implements it; tests
// substitute an in-memory provider.
type MarketDataProvider interface {
	Quote(ctx context.Context, symbol string) (model.PriceData, error)
}

// MarketService gathers quotes, FX rates and the benchmark quote needed for one valuation.
//
// Quotes are fetched concurrently with a bounded number of in-flight requests, each under
// its own timeout. A symbol that cannot be fetched is logged and left out: missing prices
// value at zero and missing rates fall back to the latest stored rate.
type MarketService struct {
	provider     MarketDataProvider
	rateRepo     *repository.ExchangeRateRepository
	logger       *logging.Logger
	timeout      time.Duration
	concurrency  int
	fxCurrencies []string
	benchmark    string
	now          func() time.Time
}

// NewMarketService creates a MarketService using the market-data and valuation settings of cfg.
func NewMarketService(
	provider MarketDataProvider,
	rateRepo *repository.ExchangeRateRepository,
	cfg *config.Config,
	logger *logging.Logger,
) *MarketService {
	concurrency := cfg.MarketData.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &MarketService{
		provider:     provider,
		rateRepo:     rateRepo,
		logger:       logger.WithComponent("market"),
		timeout:      cfg.MarketData.Timeout,
		concurrency:  concurrency,
		fxCurrencies: cfg.Valuation.FXCurrencies,
		benchmark:    strings.ToUpper(cfg.Valuation.BenchmarkSymbol),
		now:          time.Now,
	}
}

// WithClock replaces the clock used to date stored exchange rates.
func (s *MarketService) WithClock(now func() time.Time) *MarketService {
	s.now = now
	return s
}

// Fetch returns quotes for tickers and the benchmark, plus a rate table covering currencies,
// the configured FX currencies and every currency a fetched quote is denominated in.
// It only fails when ctx is done.
func (s *MarketService) Fetch(ctx context.Context, tickers, currencies []string) (model.MarketData, error) {
	symbols := normalizeSymbols(tickers)
	if s.benchmark != "" && !slices.Contains(symbols, s.benchmark) {
		symbols = append(symbols, s.benchmark)
	}

	quotes := s.fetchQuotes(ctx, symbols)
	if err := ctx.Err(); err != nil {
		return model.MarketData{}, err
	}

	data := model.MarketData{
		Prices: make(map[string]model.PriceData, len(tickers)),
	}
	wanted := slices.Clone(currencies)
	for _, ticker := range normalizeSymbols(tickers) {
		if q, ok := quotes[ticker]; ok {
			data.Prices[ticker] = q
			wanted = append(wanted, q.Currency)
		}
	}
	if q, ok := quotes[s.benchmark]; ok {
		data.Benchmark = &q
	}

	rates, fxQuotes, err := s.fetchRates(ctx, wanted)
	if err != nil {
		return model.MarketData{}, err
	}
	data.Rates = rates
	data.FXQuotes = fxQuotes

	return data, nil
}

// Rates returns a rate table for currencies and the configured FX currencies without
// fetching any ticker quotes.
func (s *MarketService) Rates(ctx context.Context, currencies []string) (valuation.Rates, error) {
	rates, _, err := s.fetchRates(ctx, currencies)
	if err != nil {
		return nil, err
	}
	return valuation.NewRates(rates), nil
}

func (s *MarketService) fetchRates(ctx context.Context, currencies []string) (map[string]float64, map[string]model.PriceData, error) {
	wanted := s.fxCurrencySet(currencies)

	pairs := make([]string, len(wanted))
	for i, cur := range wanted {
		pairs[i] = valuation.FXPair(cur)
	}
	quotes := s.fetchQuotes(ctx, pairs)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	rates := map[string]float64{model.BaseCurrency: 1}
	fxQuotes := make(map[string]model.PriceData, len(quotes))
	today := s.now().UTC()

	for _, cur := range wanted {
		pair := valuation.FXPair(cur)
		if q, ok := quotes[pair]; ok && q.CurrentPrice > 0 {
			rates[cur] = q.CurrentPrice
			fxQuotes[pair] = q
			s.storeRate(ctx, cur, q.CurrentPrice, today)
			continue
		}

		stored, err := s.rateRepo.GetLatestExchangeRate(ctx, model.BaseCurrency, cur)
		if err != nil {
			if !errors.Is(err, apperrors.ErrExchangeRateNotFound) {
				s.logger.Error().Err(err).Str("currency", cur).Msg("failed to load stored exchange rate")
			}
			s.logger.Warn().Str("currency", cur).Msg("no exchange rate available, treating as USD")
			continue
		}
		s.logger.Debug().
			Str("currency", cur).
			Time("rate_date", stored.Date).
			Msg("using stored exchange rate")
		rates[cur] = stored.Rate
	}

	return rates, fxQuotes, nil
}

func (s *MarketService) storeRate(ctx context.Context, currency string, rate float64, date time.Time) {
	err := s.rateRepo.UpsertExchangeRate(ctx, &model.ExchangeRate{
		ID:           uuid.New().String(),
		FromCurrency: model.BaseCurrency,
		ToCurrency:   currency,
		Rate:         rate,
		Date:         date,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("currency", currency).Msg("failed to store exchange rate")
	}
}

// fetchQuotes fetches every symbol concurrently and returns the successful quotes keyed by
// symbol. Failures are logged and skipped.
func (s *MarketService) fetchQuotes(ctx context.Context, symbols []string) map[string]model.PriceData {
	var mu sync.Mutex
	quotes := make(map[string]model.PriceData, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			qctx := gctx
			if s.timeout > 0 {
				var cancel context.CancelFunc
				qctx, cancel = context.WithTimeout(gctx, s.timeout)
				defer cancel()
			}

			start := time.Now()
			q, err := s.provider.Quote(qctx, symbol)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("symbol", symbol).
					Dur("duration", time.Since(start)).
					Msg("quote unavailable")
				return nil
			}
			if q.Symbol == "" {
				q.Symbol = symbol
			}

			mu.Lock()
			quotes[symbol] = q
			mu.Unlock()
			return nil
		})
	}

	// Every goroutine returns nil; failures are already logged.
	_ = g.Wait()

	return quotes
}

// fxCurrencySet returns the distinct non-USD currencies of currencies plus the configured
// FX currencies, upper-cased and sorted.
func (s *MarketService) fxCurrencySet(currencies []string) []string {
	set := make(map[string]struct{})
	for _, cur := range slices.Concat(currencies, s.fxCurrencies) {
		cur = strings.ToUpper(strings.TrimSpace(cur))
		if cur == "" || cur == model.BaseCurrency {
			continue
		}
		set[cur] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for cur := range set {
		out = append(out, cur)
	}
	slices.Sort(out)
	return out
}

// normalizeSymbols upper-cases, trims and de-duplicates symbols, keeping first-seen order.
func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
