package geometry_test

import (
	"errors"
	"math"
	"testing"

	"seedrand/adapters/random"
	"seedrand/domain/geometry"
	"seedrand/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	trials = 1 << 12
	eps    = 1e-9
)

// fixedFractions replays fractions and then fails
type fixedFractions struct {
	values []float32
}

var errDrained = errors.New("drained")

func (f *fixedFractions) Value() (float32, error) {
	if len(f.values) == 0 {
		return 0, errDrained
	}
	v := f.values[0]
	f.values = f.values[1:]
	return v, nil
}

func fractions(values ...float32) *fixedFractions {
	return &fixedFractions{values: values}
}

func TestRange_IsInclusive(t *testing.T) {
	v, err := geometry.Range(fractions(0), -2, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(-2), v)

	v, err = geometry.Range(fractions(1), -2, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(3), v)

	src := random.New(42)
	for i := 0; i < trials; i++ {
		v, err := geometry.Range(src, 0.1, 0.7)
		require.NoError(t, err)
		assert.True(t, v >= 0.1 && v <= 0.7, "%v", v)
	}
}

func TestInsideUnitSphere_KnownFractions(t *testing.T) {
	p, err := geometry.InsideUnitSphere(fractions(0, 0.5, 1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.X, eps)
	assert.InDelta(t, 0.0, p.Y, eps)
	assert.InDelta(t, 0.0, p.Z, eps)

	p, err = geometry.InsideUnitSphere(fractions(0.25, 1, 0.125))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.Z, eps, "north pole at radius cbrt(1/8)")
}

func TestInsideUnitSphere_MagnitudeWithinUnit(t *testing.T) {
	src := random.New(42)
	actual, err := testkit.Run(trials, func() (r3.Vec, error) { return geometry.InsideUnitSphere(src) })
	require.NoError(t, err)

	ok, idx := actual.All(func(v r3.Vec) bool { return r3.Norm(v) <= 1+eps })
	assert.True(t, ok, "sample %d outside the sphere", idx)
}

func TestInsideUnitSphere_UniformByVolume(t *testing.T) {
	src := random.New(7, random.WithEngine(random.EnginePCG))
	actual, err := testkit.Run(trials, func() (r3.Vec, error) { return geometry.InsideUnitSphere(src) })
	require.NoError(t, err)

	// the enclosed volume fraction r^3 is uniform when density is uniform
	cubes := actual.Floats(func(v r3.Vec) float64 { return math.Min(1, math.Pow(r3.Norm(v), 3)) })
	counts, err := testkit.Histogram(cubes, 0, 1, 8)
	require.NoError(t, err)
	_, p, err := testkit.ChiSquareUniform(counts)
	require.NoError(t, err)
	assert.Greater(t, p, 1e-4, "counts %v", counts)

	// and every axis is symmetric around zero
	summary, err := testkit.Describe(actual.Floats(func(v r3.Vec) float64 { return v.Z }))
	require.NoError(t, err)
	assert.InDelta(t, 0, summary.Mean, 0.05)
}

func TestInsideUnitCircle_MagnitudeWithinUnit(t *testing.T) {
	src := random.New(42)
	actual, err := testkit.Run(trials, func() (r2.Vec, error) { return geometry.InsideUnitCircle(src) })
	require.NoError(t, err)

	ok, idx := actual.All(func(v r2.Vec) bool { return r2.Norm(v) <= 1+eps })
	assert.True(t, ok, "sample %d outside the circle", idx)

	squares := actual.Floats(func(v r2.Vec) float64 { return math.Min(1, r2.Norm2(v)) })
	counts, err := testkit.Histogram(squares, 0, 1, 8)
	require.NoError(t, err)
	_, p, err := testkit.ChiSquareUniform(counts)
	require.NoError(t, err)
	assert.Greater(t, p, 1e-4, "counts %v", counts)
}

func TestInsideUnitCircle_KnownFractions(t *testing.T) {
	p, err := geometry.InsideUnitCircle(fractions(0.25, 0.25))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, p.X, eps)
	assert.InDelta(t, 0.5, p.Y, eps)
}

func TestOnUnitSphere_MagnitudeIsOne(t *testing.T) {
	src := random.New(42)
	actual, err := testkit.Run(trials, func() (r3.Vec, error) { return geometry.OnUnitSphere(src) })
	require.NoError(t, err)

	ok, idx := actual.All(func(v r3.Vec) bool { return math.Abs(r3.Norm(v)-1) < 1e-3 })
	assert.True(t, ok, "sample %d off the surface", idx)

	// Archimedes: z is uniform on [-1, 1] for a uniform surface density
	zs := actual.Floats(func(v r3.Vec) float64 { return math.Max(-1, math.Min(1, v.Z)) })
	counts, err := testkit.Histogram(zs, -1, 1, 8)
	require.NoError(t, err)
	_, p, err := testkit.ChiSquareUniform(counts)
	require.NoError(t, err)
	assert.Greater(t, p, 1e-4, "counts %v", counts)
}

func assertUnitQuaternion(t *testing.T, q quat.Number) {
	t.Helper()
	assert.InDelta(t, 1.0, quat.Abs(q), 1e-9)
	for _, c := range []float64{q.Real, q.Imag, q.Jmag, q.Kmag} {
		assert.True(t, c >= -1 && c <= 1, "component %v out of [-1, 1]", c)
	}
}

func TestRotation_IsUnit(t *testing.T) {
	src := random.New(42)
	for i := 0; i < trials; i++ {
		q, err := geometry.Rotation(src)
		require.NoError(t, err)
		assertUnitQuaternion(t, q)
	}
}

func TestRotation_KnownFractions(t *testing.T) {
	q, err := geometry.Rotation(fractions(0, 0.5, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, q.Imag, eps)
	assert.InDelta(t, 0.0, q.Real, eps)

	// w = 1 with direction (1, 0, 0) normalises to 45 degrees between them
	q, err = geometry.Rotation(fractions(0, 0.5, 1))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2/2, q.Imag, eps)
	assert.InDelta(t, math.Sqrt2/2, q.Real, eps)
}

func TestRotationUniform_IsUnit(t *testing.T) {
	src := random.New(42)
	for i := 0; i < trials; i++ {
		q, err := geometry.RotationUniform(src)
		require.NoError(t, err)
		assertUnitQuaternion(t, q)
	}
}

func TestRotationUniform_KnownFractions(t *testing.T) {
	q, err := geometry.RotationUniform(fractions(0, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, q.Imag, eps)
	assert.InDelta(t, 1.0, q.Jmag, eps)
	assert.InDelta(t, 0.0, q.Kmag, eps)
	assert.InDelta(t, 0.0, q.Real, eps)

	q, err = geometry.RotationUniform(fractions(1, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, q.Real, eps)
}

func TestRotationUniform_RealPartDistribution(t *testing.T) {
	// for uniform rotations the rotation angle satisfies
	// P(|w| <= c) = (2/pi)(asin(c) + c*sqrt(1-c^2))
	src := random.New(99, random.WithEngine(random.EngineSplitMix))
	actual, err := testkit.Run(trials, func() (quat.Number, error) { return geometry.RotationUniform(src) })
	require.NoError(t, err)

	cdf := func(c float64) float64 { return 2 / math.Pi * (math.Asin(c) + c*math.Sqrt(1-c*c)) }
	transformed := actual.Floats(func(q quat.Number) float64 { return math.Min(1, cdf(math.Min(1, math.Abs(q.Real)))) })
	counts, err := testkit.Histogram(transformed, 0, 1, 8)
	require.NoError(t, err)
	_, p, err := testkit.ChiSquareUniform(counts)
	require.NoError(t, err)
	assert.Greater(t, p, 1e-4, "counts %v", counts)
}

func TestNormalize_ZeroIsIdentity(t *testing.T) {
	assert.Equal(t, quat.Number{Real: 1}, geometry.Normalize(quat.Number{}))
}

func TestRange_PropagatesFractionErrors(t *testing.T) {
	_, err := geometry.Range(fractions(), 0, 1)
	assert.ErrorIs(t, err, errDrained)
}

func TestSamplers_PropagateFractionErrors(t *testing.T) {
	calls := map[string]func(geometry.Fractions) error{
		"InsideUnitSphere": func(f geometry.Fractions) error { _, err := geometry.InsideUnitSphere(f); return err },
		"InsideUnitCircle": func(f geometry.Fractions) error { _, err := geometry.InsideUnitCircle(f); return err },
		"OnUnitSphere":     func(f geometry.Fractions) error { _, err := geometry.OnUnitSphere(f); return err },
		"Rotation":         func(f geometry.Fractions) error { _, err := geometry.Rotation(f); return err },
		"RotationUniform":  func(f geometry.Fractions) error { _, err := geometry.RotationUniform(f); return err },
		"ColorHSV": func(f geometry.Fractions) error {
			_, err := geometry.ColorHSV(f, geometry.DefaultHSVRange())
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(fractions()), errDrained)
			assert.ErrorIs(t, call(fractions(0.5)), errDrained)
		})
	}
}

func TestSamplers_AreDeterministicPerSeed(t *testing.T) {
	a, b := random.New(31337), random.New(-31337)
	for i := 0; i < 64; i++ {
		pa, err := geometry.InsideUnitSphere(a)
		require.NoError(t, err)
		pb, err := geometry.InsideUnitSphere(b)
		require.NoError(t, err)
		assert.Equal(t, pa, pb)

		qa, err := geometry.Rotation(a)
		require.NoError(t, err)
		qb, err := geometry.Rotation(b)
		require.NoError(t, err)
		assert.Equal(t, qa, qb)
	}
}
