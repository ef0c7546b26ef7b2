// Package doubles provides test doubles for ports.Random: a scripted stub
// and a recording spy.
package doubles

import (
	"seedrand/domain/core"
	"seedrand/domain/geometry"
	"seedrand/ports"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const stubName = "StubRandom"

// StubRandom replays a fixed script of integers. Every integer-returning
// call consumes the next value regardless of its bounds; running past the
// end is core.ErrExhaustedSequence. All other operations are
// core.ErrUnsupported.
type StubRandom struct {
	values []int
	index  int
}

// NewStubRandom creates a stub that returns values in order
func NewStubRandom(values ...int) (*StubRandom, error) {
	if len(values) == 0 {
		return nil, core.NewInvalidArgumentError("NewStubRandom", "script must not be empty")
	}
	script := make([]int, len(values))
	copy(script, values)
	return &StubRandom{values: script}, nil
}

// Remaining returns how many scripted values are left
func (s *StubRandom) Remaining() int {
	return len(s.values) - s.index
}

func (s *StubRandom) pop() (int, error) {
	if s.index >= len(s.values) {
		return 0, core.NewExhaustedSequenceError(s.index+1, len(s.values))
	}
	v := s.values[s.index]
	s.index++
	return v, nil
}

func (s *StubRandom) Next() (int, error)              { return s.pop() }
func (s *StubRandom) NextN(int) (int, error)          { return s.pop() }
func (s *StubRandom) NextRange(int, int) (int, error) { return s.pop() }
func (s *StubRandom) RangeInt(int, int) (int, error)  { return s.pop() }

func (s *StubRandom) NextBytes([]byte) error {
	return core.NewUnsupportedError(stubName, "NextBytes")
}

func (s *StubRandom) NextDouble() (float64, error) {
	return 0, core.NewUnsupportedError(stubName, "NextDouble")
}

func (s *StubRandom) Value() (float32, error) {
	return 0, core.NewUnsupportedError(stubName, "Value")
}

func (s *StubRandom) Range(float32, float32) (float32, error) {
	return 0, core.NewUnsupportedError(stubName, "Range")
}

func (s *StubRandom) InsideUnitSphere() (r3.Vec, error) {
	return r3.Vec{}, core.NewUnsupportedError(stubName, "InsideUnitSphere")
}

func (s *StubRandom) InsideUnitCircle() (r2.Vec, error) {
	return r2.Vec{}, core.NewUnsupportedError(stubName, "InsideUnitCircle")
}

func (s *StubRandom) OnUnitSphere() (r3.Vec, error) {
	return r3.Vec{}, core.NewUnsupportedError(stubName, "OnUnitSphere")
}

func (s *StubRandom) Rotation() (quat.Number, error) {
	return quat.Number{}, core.NewUnsupportedError(stubName, "Rotation")
}

func (s *StubRandom) RotationUniform() (quat.Number, error) {
	return quat.Number{}, core.NewUnsupportedError(stubName, "RotationUniform")
}

func (s *StubRandom) ColorHSV(geometry.HSVRange) (geometry.Color, error) {
	return geometry.Color{}, core.NewUnsupportedError(stubName, "ColorHSV")
}

func (s *StubRandom) Initialize(int32) error {
	return core.NewUnsupportedError(stubName, "Initialize")
}

func (s *StubRandom) Fork() (ports.Random, error) {
	return nil, core.NewUnsupportedError(stubName, "Fork")
}

func (s *StubRandom) State() ([]byte, error) {
	return nil, core.NewNotAvailableError(stubName)
}

func (s *StubRandom) SetState([]byte) error {
	return core.NewNotAvailableError(stubName)
}

var (
	_ ports.Random        = (*StubRandom)(nil)
	_ ports.StateAccessor = (*StubRandom)(nil)
)
