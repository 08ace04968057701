package algo

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the selection algorithm.
var (
	// ErrInvalidWeights matches every *InvalidWeightsError.
	ErrInvalidWeights = errors.New("invalid selection weights")

	// ErrNonTerminatingAllocation is returned when a resolver iteration makes no progress.
	ErrNonTerminatingAllocation = errors.New("allocation made no progress")

	// ErrUnknownForm is returned when a requested form has no feasibility table.
	ErrUnknownForm = errors.New("unknown building form")

	// ErrInvalidOptions is returned for capacity options that cannot produce units.
	ErrInvalidOptions = errors.New("invalid capacity options")
)

// InvalidWeightsError describes why a probability vector cannot be sampled from.
type InvalidWeightsError struct {
	Reason string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidWeights, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidWeights.
func (e *InvalidWeightsError) Unwrap() error {
	return ErrInvalidWeights
}

func invalidWeights(format string, args ...any) error {
	return &InvalidWeightsError{Reason: fmt.Sprintf(format, args...)}
}
