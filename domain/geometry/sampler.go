// Package geometry derives points, rotations and colors from uniform
// fractions. Every sampler consumes only Value() draws, so a seeded source
// reproduces the whole derived sequence.
//
// Quaternions use gonum's layout: Real is w, Imag/Jmag/Kmag are x/y/z.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Fractions is the single primitive every sampler is built on.
type Fractions interface {
	// Value returns a fraction uniformly distributed over [0, 1].
	Value() (float32, error)
}

// Range returns a float within [min, max] (inclusive).
func Range(src Fractions, min, max float32) (float32, error) {
	f, err := src.Value()
	if err != nil {
		return 0, err
	}
	return Lerp(min, max, f), nil
}

// Lerp interpolates between min and max. The product is evaluated in
// float64 so the narrowed result never leaves [min, max].
func Lerp(min, max, t float32) float32 {
	a, b := float64(min), float64(max)
	return float32(a + (b-a)*float64(t))
}

// InsideUnitSphere returns a point uniformly distributed by volume inside
// or on the unit sphere.
func InsideUnitSphere(src Fractions) (r3.Vec, error) {
	dir, err := OnUnitSphere(src)
	if err != nil {
		return r3.Vec{}, err
	}
	w, err := src.Value()
	if err != nil {
		return r3.Vec{}, err
	}
	// cube root undoes the r^2 growth of shell volume
	r := math.Cbrt(float64(w))
	return r3.Scale(r, dir), nil
}

// InsideUnitCircle returns a point uniformly distributed by area inside or
// on the unit circle.
func InsideUnitCircle(src Fractions) (r2.Vec, error) {
	u, err := src.Value()
	if err != nil {
		return r2.Vec{}, err
	}
	v, err := src.Value()
	if err != nil {
		return r2.Vec{}, err
	}
	theta := 2 * math.Pi * float64(u)
	r := math.Sqrt(float64(v))
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, nil
}

// OnUnitSphere returns a point uniformly distributed over the surface of
// the unit sphere.
func OnUnitSphere(src Fractions) (r3.Vec, error) {
	u, err := src.Value()
	if err != nil {
		return r3.Vec{}, err
	}
	v, err := src.Value()
	if err != nil {
		return r3.Vec{}, err
	}
	return direction(u, v), nil
}

// direction maps two fractions to a unit vector. Taking phi = acos(2v-1)
// instead of phi = pi*v keeps the density uniform over solid angle.
func direction(u, v float32) r3.Vec {
	theta := 2 * math.Pi * float64(u)
	phi := math.Acos(clampUnit(2*float64(v) - 1))
	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: sinPhi * math.Cos(theta),
		Y: sinPhi * math.Sin(theta),
		Z: math.Cos(phi),
	}
}

// Rotation returns a unit quaternion built from a uniform direction and an
// independent fraction for w, normalised afterwards. It costs the same three
// draws as RotationUniform but is only approximately uniform over rotations.
func Rotation(src Fractions) (quat.Number, error) {
	dir, err := OnUnitSphere(src)
	if err != nil {
		return quat.Number{}, err
	}
	w, err := src.Value()
	if err != nil {
		return quat.Number{}, err
	}
	q := quat.Number{Real: float64(w), Imag: dir.X, Jmag: dir.Y, Kmag: dir.Z}
	return Normalize(q), nil
}

// RotationUniform returns a unit quaternion uniformly distributed over the
// rotation group, using Shoemake's subgroup algorithm.
func RotationUniform(src Fractions) (quat.Number, error) {
	var u [3]float64
	for i := range u {
		f, err := src.Value()
		if err != nil {
			return quat.Number{}, err
		}
		u[i] = float64(f)
	}

	s1 := math.Sqrt(1 - u[0])
	s2 := math.Sqrt(u[0])
	a := 2 * math.Pi * u[1]
	b := 2 * math.Pi * u[2]

	q := quat.Number{
		Imag: s1 * math.Sin(a),
		Jmag: s1 * math.Cos(a),
		Kmag: s2 * math.Sin(b),
		Real: s2 * math.Cos(b),
	}
	return Normalize(q), nil
}

// Normalize scales q to unit length. The zero quaternion maps to identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
