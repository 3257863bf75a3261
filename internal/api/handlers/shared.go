package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/portfolio-valuation/internal/api/response"
	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
	"github.com/ndewijer/portfolio-valuation/internal/validation"
)

// maxBodyBytes bounds the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the JSON body of r into a T. Unknown fields and trailing data are
// rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil || r.Body == http.NoBody {
		return req, fmt.Errorf("request body is empty")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return req, err
	}
	if decoder.More() {
		return req, fmt.Errorf("request body contains more than one JSON value")
	}

	return req, nil
}

// respondServiceError writes the error response for a failed service call.
// Missing entities map to 404, rejected input to 400 and anything else to 500 with
// failure as the message.
func respondServiceError(w http.ResponseWriter, err error, failure error) {
	var validationErr *validation.Error

	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrTradeNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrTradeNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidPeriod):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidDateRange):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
	case errors.As(err, &validationErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
	default:
		response.RespondError(w, http.StatusInternalServerError, failure.Error(), err.Error())
	}
}
