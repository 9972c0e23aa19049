package common

import (
	"errors"
)

// Pipeline error taxonomy. Callers match with errors.Is; lower layers wrap
// these with context via fmt.Errorf("...: %w", ...).
var (
	// ErrNoData indicates the market-data provider returned zero bars for a symbol.
	ErrNoData = errors.New("no data for symbol")

	// ErrInsufficientData indicates too little history for any computation.
	ErrInsufficientData = errors.New("insufficient history")

	// ErrIndicatorComputation indicates too little history for the
	// long-window indicators (200-bar moving average).
	ErrIndicatorComputation = errors.New("insufficient history for indicator computation")

	// ErrExternalService indicates a market-data or language-model call failed.
	ErrExternalService = errors.New("external service failure")

	// ErrNotFound indicates an unknown analysis identifier.
	ErrNotFound = errors.New("analysis not found")

	// ErrPersistence indicates a storage read or write failed.
	ErrPersistence = errors.New("persistence failure")
)
