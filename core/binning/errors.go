package binning

import "errors"

// Every message is prefixed with "binning: " so callers can grep for it.
// Callers match these with errors.Is; wrap with fmt.Errorf("...: %w", ErrX) when adding context.
var (
	// ErrInvalidBinCount is returned when an even-bin request asks for fewer than one bin.
	ErrInvalidBinCount = errors.New("binning: bin count must be at least 1")

	// ErrPercentileRange is returned when a percentile lies outside [0, 100].
	ErrPercentileRange = errors.New("binning: percentile must be within [0, 100]")

	// ErrExceptionBoundary is returned by Breaks when a declared exception equals a boundary.
	ErrExceptionBoundary = errors.New("binning: exception value coincides with a boundary")

	// ErrInvalidDigits is returned when label precision is negative.
	ErrInvalidDigits = errors.New("binning: digits must be non-negative")

	// ErrInvalidDivisor is returned when clean cuts are requested with a non-positive divisor.
	ErrInvalidDivisor = errors.New("binning: cuts divisor must be positive")

	// ErrDuplicateCategory is returned when a new category label already exists.
	ErrDuplicateCategory = errors.New("binning: category label already exists")

	// ErrInvalidSpec is returned for a BinSpec with an unknown kind.
	ErrInvalidSpec = errors.New("binning: invalid bin spec")
)
