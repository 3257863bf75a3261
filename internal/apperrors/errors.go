package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrTradeNotFound indicates that a trade with the given ID does not exist.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrExchangeRateNotFound indicates no stored rate for a currency pair.
	ErrExchangeRateNotFound = errors.New("exchange rate for currency/date not found")

	// ErrPerformanceEntryNotFound indicates no stored performance snapshot matches the query.
	ErrPerformanceEntryNotFound = errors.New("performance entry not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidPeriod indicates an unknown performance period name.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	ErrInvalidPortfolioID = errors.New("portfolio ID is required")
	ErrInvalidTradeID     = errors.New("trade ID is required")
	ErrInvalidCurrency    = errors.New("currency must be a three letter code")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// The handlers use them as the user-facing message of 500 responses.
var (
	// Portfolio operation errors
	ErrFailedToRetrievePortfolios   = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToCreatePortfolio      = errors.New("failed to create portfolio")
	ErrFailedToUpdatePortfolio      = errors.New("failed to update portfolio")
	ErrFailedToDeletePortfolio      = errors.New("failed to delete portfolio")
	ErrFailedToGetHoldings          = errors.New("failed to get holdings")
	ErrFailedToGetRealizedGains     = errors.New("failed to get realized gains")
	ErrFailedToGetPortfolioSummary  = errors.New("failed to get portfolio summary")
	ErrFailedToGetPerformance       = errors.New("failed to get portfolio performance")
	ErrFailedToRecordSnapshot       = errors.New("failed to record performance snapshot")
	ErrFailedToRetrieveCashBalances = errors.New("failed to retrieve cash balances")
	ErrFailedToUpdateCashBalance    = errors.New("failed to update cash balance")

	// Trade operation errors
	ErrFailedToRetrieveTrades = errors.New("failed to retrieve trades")
	ErrFailedToRetrieveTrade  = errors.New("failed to retrieve trade")
	ErrFailedToCreateTrade    = errors.New("failed to create trade")
	ErrFailedToUpdateTrade    = errors.New("failed to update trade")
	ErrFailedToDeleteTrade    = errors.New("failed to delete trade")
)
