package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/portfolio-valuation/internal/api/handlers"
	custommiddleware "github.com/ndewijer/portfolio-valuation/internal/api/middleware"
	"github.com/ndewijer/portfolio-valuation/internal/config"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
	"github.com/ndewijer/portfolio-valuation/internal/service"
)

// Services groups the services the HTTP API is served from.
type Services struct {
	System    *service.SystemService
	Portfolio *service.PortfolioService
	Trade     *service.TradeService
	Cash      *service.CashService
	Snapshot  *service.SnapshotService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio, services.Snapshot)
	cashHandler := handlers.NewCashHandler(services.Cash)
	tradeHandler := handlers.NewTradeHandler(services.Trade)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Put("/", portfolioHandler.UpdatePortfolio)
				r.Delete("/", portfolioHandler.DeletePortfolio)
				r.Get("/holdings", portfolioHandler.Holdings)
				r.Get("/summary", portfolioHandler.Summary)
				r.Get("/realized", portfolioHandler.RealizedGains)
				r.Get("/performance", portfolioHandler.Performance)
				r.Post("/snapshot", portfolioHandler.RecordSnapshot)
				r.Get("/cash", cashHandler.Balances)
				r.Put("/cash", cashHandler.SetBalance)
				r.Get("/trades", tradeHandler.PortfolioTrades)
			})
		})

		r.Route("/trade", func(r chi.Router) {
			r.Post("/", tradeHandler.CreateTrade)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", tradeHandler.GetTrade)
				r.Put("/", tradeHandler.UpdateTrade)
				r.Delete("/", tradeHandler.DeleteTrade)
			})
		})
	})

	return r
}
