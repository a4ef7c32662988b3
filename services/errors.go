package services

import "errors"

// Failure kinds scoped to a single row or group. None of them is fatal
// to a run: callers check with errors.Is and exclude the row or group
// from the one analysis that needed it.
var (
	// ErrInvalidFormat means a text field does not match the expected
	// numeric pattern.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUndefinedOperation means a derived metric has no defined value
	// for the given inputs, such as a discount percentage when the list
	// price does not exceed the selling price.
	ErrUndefinedOperation = errors.New("undefined operation")

	// ErrInsufficientGroup means a group fell below a report's minimum
	// size and was dropped from its output.
	ErrInsufficientGroup = errors.New("insufficient group size")
)
