package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrWeightsNotNormal = fmt.Errorf("%w: weights do not sum to 1.0", ErrInvalidConfig)
	ErrUnknownItem      = fmt.Errorf("%w: unknown item", ErrInvalidConfig)

	// Simulation invariant violations
	ErrEmptyInventory = errors.New("draw attempted on empty inventory")

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewWeightSumError(name string, sum float64) error {
	return fmt.Errorf("%w: %s sums to %g", ErrWeightsNotNormal, name, sum)
}

func NewUnknownItemError(context string, item string) error {
	return fmt.Errorf("%w: %q in %s", ErrUnknownItem, item, context)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

// Error checking helpers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
