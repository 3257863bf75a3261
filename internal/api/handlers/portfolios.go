package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/api/response"
	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/service"
	"github.com/ndewijer/portfolio-valuation/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	snapshotService  *service.SnapshotService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService, snapshotService *service.SnapshotService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		snapshotService:  snapshotService,
	}
}

// Portfolios handles GET requests listing portfolios ordered by name.
// Archived portfolios are included with ?include_archived=true.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with []model.Portfolio
// Error: 400 Bad Request for a malformed include_archived flag
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	includeArchived := false
	if raw := r.URL.Query().Get("include_archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid include_archived", err.Error())
			return
		}
		includeArchived = v
	}

	portfolios, err := h.portfolioService.GetAllPortfolios(r.Context(), includeArchived)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// GetPortfolio handles GET requests to retrieve a single portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with model.Portfolio
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio handles POST requests to create a new portfolio.
//
// Endpoint: POST /api/portfolio
// Request: {"name": "Growth", "description": "..."}
// Response: 201 Created with model.Portfolio
// Error: 400 Bad Request for an invalid body
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreatePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// UpdatePortfolio handles PUT requests to rename, describe or archive a portfolio.
// Only the fields present in the body are changed.
//
// Endpoint: PUT /api/portfolio/{uuid}
// Request: {"name": "...", "description": "...", "isArchived": true}
// Response: 200 OK with model.Portfolio
// Error: 400 Bad Request, 404 Not Found
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// DeletePortfolio handles DELETE requests. Trades, cash and performance history of the
// portfolio are deleted with it.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content
// Error: 404 Not Found
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	if err := h.portfolioService.DeletePortfolio(r.Context(), portfolioID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeletePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Holdings handles GET requests for the open positions of a portfolio valued at the
// latest market prices, in USD.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
// Response: 200 OK with []model.Holding
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	holdings, err := h.portfolioService.Holdings(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// RealizedGains handles GET requests for the FIFO realized gain of every sell.
//
// Endpoint: GET /api/portfolio/{uuid}/realized
// Response: 200 OK with []model.RealizedGainRecord
func (h *PortfolioHandler) RealizedGains(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	records, err := h.portfolioService.RealizedGains(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetRealizedGains)
		return
	}

	response.RespondJSON(w, http.StatusOK, records)
}

// Summary handles GET requests for the portfolio summary. Totals are in USD; the display
// block is rendered in ?currency=, defaulting to the configured display currency.
//
// Endpoint: GET /api/portfolio/{uuid}/summary
// Response: 200 OK with model.PortfolioSummary
// Error: 400 Bad Request for a malformed currency, 404 Not Found
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	currency := r.URL.Query().Get("currency")
	if currency != "" {
		if err := validation.ValidateCurrency(currency); err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCurrency.Error(), err.Error())
			return
		}
	}

	summary, err := h.portfolioService.Summary(r.Context(), portfolioID, currency)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioSummary)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Performance handles GET requests for the normalized performance chart.
//
// The window is either ?period= (1W, 1M, 3M, 6M, YTD, 1Y, 3Y, 5Y, ALL) or an explicit
// ?start_date=&end_date= range in YYYY-MM-DD; either side of the range may be omitted.
//
// Endpoint: GET /api/portfolio/{uuid}/performance
// Response: 200 OK with model.NormalizedSeries
// Error: 400 Bad Request for an invalid period or range, 404 Not Found
func (h *PortfolioHandler) Performance(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")
	query := service.PerformanceQuery{Period: r.URL.Query().Get("period")}

	var err error
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		query.StartDate, err = validation.ParseTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid start_date", err.Error())
			return
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		query.EndDate, err = validation.ParseTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid end_date", err.Error())
			return
		}
	}

	series, err := h.portfolioService.Performance(r.Context(), portfolioID, query)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPerformance)
		return
	}

	response.RespondJSON(w, http.StatusOK, series)
}

// RecordSnapshot handles POST requests that record today's performance snapshot right away
// instead of waiting for the scheduled run.
//
// Endpoint: POST /api/portfolio/{uuid}/snapshot
// Response: 201 Created with model.PerformanceEntry
// Error: 404 Not Found
func (h *PortfolioHandler) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	entry, err := h.snapshotService.RecordSnapshot(r.Context(), portfolioID, time.Now())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRecordSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}
