package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Argument errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Test double errors
	ErrExhaustedSequence = errors.New("scripted sequence exhausted")
	ErrUnsupported       = errors.New("operation not supported")

	// State access errors
	ErrNotAvailable = errors.New("generator state not available")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// Error constructors with context
func NewInvalidArgumentError(op string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, op, fmt.Sprintf(format, args...))
}

func NewExhaustedSequenceError(call, length int) error {
	return fmt.Errorf("%w: call %d exceeds the %d scripted values", ErrExhaustedSequence, call, length)
}

func NewUnsupportedError(double, op string) error {
	return fmt.Errorf("%w: %s does not implement %s", ErrUnsupported, double, op)
}

func NewNotAvailableError(engine string) error {
	return fmt.Errorf("%w: engine %q has no round-trippable snapshot", ErrNotAvailable, engine)
}

func NewSeedMismatchError(name string, seed int32, index int, want, got float64) error {
	return fmt.Errorf("%w: stream %s seed %d draw %d: expected %v, got %v", ErrSeedMismatch, name, seed, index, want, got)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsExhaustedSequence(err error) bool {
	return errors.Is(err, ErrExhaustedSequence)
}

func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

func IsNotAvailable(err error) bool {
	return errors.Is(err, ErrNotAvailable)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrSeedMismatch)
}
