// Package stats holds the stationarity diagnostics: rolling moments, the augmented
// dickey-fuller unit root test, and a classical additive decomposition. None of the results
// feed back into the forecasting methods.
package stats

import "errors"

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidPeriod    = errors.New("period must be at least 2")
	ErrInvalidLag       = errors.New("max lag must be -1 or non-negative")
	ErrUnknownAutolag   = errors.New("unknown autolag method")
)
