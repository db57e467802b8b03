package ports

import "errors"

// Standard application-level errors.
// Adapters and the backtest engine wrap underlying errors with these standard
// errors so callers can branch with errors.Is.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Backtest Engine Errors
	// Per-session anomalies are recovered locally: the offending session or
	// (session, indicator) pair is dropped and counted in diagnostics, and
	// the run continues. Only configuration errors and a completely empty
	// input propagate to the caller.
	ErrMissingSupportValue = errors.New("indicator has no value at session start")
	ErrDegenerateSupport   = errors.New("support value makes percentage computation undefined")
	ErrInvalidSessionGap   = errors.New("boundary pair spacing does not equal the session length")
	ErrEmptyInput          = errors.New("no snapshots supplied for any instrument")

	// Exchange Specific Errors
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrInvalidAPIKeys       = errors.New("invalid API keys or permissions")

	// Database Specific Errors
	ErrDuplicateEntry = errors.New("database record already exists")
	ErrDBConnection   = errors.New("database connection error")
	ErrQueryFailed    = errors.New("database query failed")
)
