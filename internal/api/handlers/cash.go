package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-valuation/internal/api/request"
	"github.com/ndewijer/portfolio-valuation/internal/api/response"
	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/service"
	"github.com/ndewijer/portfolio-valuation/internal/validation"
)

// CashHandler handles the cash balances of a portfolio.
type CashHandler struct {
	cashService *service.CashService
}

// NewCashHandler creates a new CashHandler
func NewCashHandler(cashService *service.CashService) *CashHandler {
	return &CashHandler{
		cashService: cashService,
	}
}

// Balances handles GET requests for the cash balances of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/cash
// Response: 200 OK with []model.CashBalance
func (h *CashHandler) Balances(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	balances, err := h.cashService.GetBalances(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveCashBalances)
		return
	}

	response.RespondJSON(w, http.StatusOK, balances)
}

// SetBalance handles PUT requests that overwrite the balance held in one currency.
//
// Endpoint: PUT /api/portfolio/{uuid}/cash
// Request: {"currency": "EUR", "amount": 1250.5}
// Response: 200 OK with model.CashBalance
// Error: 400 Bad Request, 404 Not Found
func (h *CashHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SetCashBalanceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetCashBalance(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	balance, err := h.cashService.SetBalance(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateCashBalance)
		return
	}

	response.RespondJSON(w, http.StatusOK, balance)
}
