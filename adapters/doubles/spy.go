package doubles

import (
	"seedrand/domain/core"
	"seedrand/domain/geometry"
	"seedrand/ports"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Operations whose arguments a SpyRandom captures
const (
	OpNextN      = "NextN"
	OpNextRange  = "NextRange"
	OpNextBytes  = "NextBytes"
	OpRange      = "Range"
	OpRangeInt   = "RangeInt"
	OpColorHSV   = "ColorHSV"
	OpInitialize = "Initialize"
)

// SpyRandom forwards every call to a real ports.Random and keeps the
// arguments of the latest call per operation. Older captures are
// overwritten, not accumulated.
type SpyRandom struct {
	real     ports.Random
	captured map[string][]any
}

// NewSpyRandom wraps real
func NewSpyRandom(real ports.Random) *SpyRandom {
	return &SpyRandom{real: real, captured: make(map[string][]any)}
}

// Captured returns the arguments of the latest call to op
func (s *SpyRandom) Captured(op string) ([]any, bool) {
	args, ok := s.captured[op]
	if !ok {
		return nil, false
	}
	return append([]any(nil), args...), true
}

// CapturedMaxValue returns the max argument of the latest NextN call
func (s *SpyRandom) CapturedMaxValue() (int, bool) {
	args, ok := s.captured[OpNextN]
	if !ok {
		return 0, false
	}
	return args[0].(int), true
}

func (s *SpyRandom) capture(op string, args ...any) {
	s.captured[op] = args
}

func (s *SpyRandom) Next() (int, error) {
	return s.real.Next()
}

func (s *SpyRandom) NextN(max int) (int, error) {
	s.capture(OpNextN, max)
	return s.real.NextN(max)
}

func (s *SpyRandom) NextRange(min, max int) (int, error) {
	s.capture(OpNextRange, min, max)
	return s.real.NextRange(min, max)
}

// NextBytes captures the buffer length
func (s *SpyRandom) NextBytes(buf []byte) error {
	s.capture(OpNextBytes, len(buf))
	return s.real.NextBytes(buf)
}

func (s *SpyRandom) NextDouble() (float64, error) {
	return s.real.NextDouble()
}

func (s *SpyRandom) Value() (float32, error) {
	return s.real.Value()
}

func (s *SpyRandom) Range(min, max float32) (float32, error) {
	s.capture(OpRange, min, max)
	return s.real.Range(min, max)
}

func (s *SpyRandom) RangeInt(min, max int) (int, error) {
	s.capture(OpRangeInt, min, max)
	return s.real.RangeInt(min, max)
}

func (s *SpyRandom) InsideUnitSphere() (r3.Vec, error) {
	return s.real.InsideUnitSphere()
}

func (s *SpyRandom) InsideUnitCircle() (r2.Vec, error) {
	return s.real.InsideUnitCircle()
}

func (s *SpyRandom) OnUnitSphere() (r3.Vec, error) {
	return s.real.OnUnitSphere()
}

func (s *SpyRandom) Rotation() (quat.Number, error) {
	return s.real.Rotation()
}

func (s *SpyRandom) RotationUniform() (quat.Number, error) {
	return s.real.RotationUniform()
}

func (s *SpyRandom) ColorHSV(r geometry.HSVRange) (geometry.Color, error) {
	s.capture(OpColorHSV, r)
	return s.real.ColorHSV(r)
}

func (s *SpyRandom) Initialize(seed int32) error {
	s.capture(OpInitialize, seed)
	return s.real.Initialize(seed)
}

// Fork returns the wrapped Random's child, unwrapped
func (s *SpyRandom) Fork() (ports.Random, error) {
	return s.real.Fork()
}

func (s *SpyRandom) State() ([]byte, error) {
	if sa, ok := s.real.(ports.StateAccessor); ok {
		return sa.State()
	}
	return nil, core.NewNotAvailableError("SpyRandom")
}

func (s *SpyRandom) SetState(state []byte) error {
	if sa, ok := s.real.(ports.StateAccessor); ok {
		return sa.SetState(state)
	}
	return core.NewNotAvailableError("SpyRandom")
}

var (
	_ ports.Random        = (*SpyRandom)(nil)
	_ ports.StateAccessor = (*SpyRandom)(nil)
)
