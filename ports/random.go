package ports

import (
	"seedrand/domain/geometry"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// UniformSource is the primitive randomness capability.
// Implementations are not safe for concurrent use.
type UniformSource interface {
	// Next returns an integer in [0, math.MaxInt32).
	Next() (int, error)

	// NextN returns an integer in [0, max). max == 0 returns 0; max < 0 is
	// core.ErrInvalidArgument.
	NextN(max int) (int, error)

	// NextRange returns an integer in [min, max). min == max returns min;
	// max < min is core.ErrInvalidArgument.
	NextRange(min, max int) (int, error)

	// NextBytes fills buf in place.
	NextBytes(buf []byte) error

	// NextDouble returns a float64 in [0.0, 1.0).
	NextDouble() (float64, error)
}

// Sampler derives ranged values, points, rotations and colors.
type Sampler interface {
	geometry.Fractions

	// Range returns a float within [min, max] (inclusive).
	Range(min, max float32) (float32, error)

	// RangeInt returns an int within [min, max), delegating to NextRange.
	RangeInt(min, max int) (int, error)

	InsideUnitSphere() (r3.Vec, error)
	InsideUnitCircle() (r2.Vec, error)
	OnUnitSphere() (r3.Vec, error)

	// Rotation is the cheap normalised construction.
	Rotation() (quat.Number, error)

	// RotationUniform is exactly uniform over rotations.
	RotationUniform() (quat.Number, error)

	ColorHSV(r geometry.HSVRange) (geometry.Color, error)
}

// Random is the contract callers depend on instead of a concrete engine.
type Random interface {
	UniformSource
	Sampler

	// Initialize discards all state and reseeds in place.
	Initialize(seed int32) error

	// Fork draws one Next() and returns a new, independent Random seeded
	// with it.
	Fork() (Random, error)
}

// StateAccessor is an optional capability for generators that can snapshot
// their internal state. Generators that cannot round-trip their state
// return core.ErrNotAvailable.
type StateAccessor interface {
	State() ([]byte, error)
	SetState(state []byte) error
}
