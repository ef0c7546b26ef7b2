// Package random provides Stream, the concrete seeded implementation of
// ports.Random.
package random

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"seedrand/domain/core"
	"seedrand/domain/geometry"
	"seedrand/ports"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stream is a seeded, stateful sequence of pseudo-random draws.
// A Stream is not safe for concurrent use; give each goroutine its own
// Fork instead of sharing one.
type Stream struct {
	engine Engine
	seed   int32
	src    rand.Source64
	rng    *rand.Rand
}

type options struct {
	engine Engine
	tick   core.TickSource
}

// Option configures a Stream at construction
type Option func(*options)

// WithEngine selects the bit generator (default EngineStandard)
func WithEngine(e Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithTickSource replaces the clock read by NewFromClock
func WithTickSource(tick core.TickSource) Option {
	return func(o *options) { o.tick = tick }
}

func buildOptions(opts []Option) options {
	o := options{engine: EngineStandard, tick: core.TickSeed}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a Stream with an explicit seed. Seeds k and -k yield the
// same sequence. New panics if the engine is unknown; use ParseEngine
// to validate names coming from configuration.
func New(seed int32, opts ...Option) *Stream {
	o := buildOptions(opts)
	s := &Stream{engine: o.engine}
	if err := s.Initialize(seed); err != nil {
		panic(err)
	}
	return s
}

// NewFromClock creates a Stream seeded from the tick source. The tick is
// read once; the value becomes the stream's fixed seed.
func NewFromClock(opts ...Option) *Stream {
	o := buildOptions(opts)
	return New(o.tick(), opts...)
}

// Factory returns a ports.StreamFactory building Streams on engine e
func Factory(e Engine) ports.StreamFactory {
	return func(seed int32) ports.Random {
		return New(seed, WithEngine(e))
	}
}

// Resolve parses an engine name and returns its factory
func Resolve(engine string) (ports.StreamFactory, error) {
	e, err := ParseEngine(engine)
	if err != nil {
		return nil, err
	}
	return Factory(e), nil
}

// NormalizeSeed maps a declared seed to the value the engine is seeded
// with: its absolute value, with math.MinInt32 mapped to math.MaxInt32.
func NormalizeSeed(seed int32) int64 {
	if seed == math.MinInt32 {
		return math.MaxInt32
	}
	if seed < 0 {
		return int64(-seed)
	}
	return int64(seed)
}

// Initialize discards all state and reseeds in place. It is the same
// transformation New uses.
func (s *Stream) Initialize(seed int32) error {
	src, err := s.engine.newSource(NormalizeSeed(seed))
	if err != nil {
		return err
	}
	s.src = src
	s.rng = rand.New(src)
	s.seed = seed
	return nil
}

// Seed returns the declared seed
func (s *Stream) Seed() int32 {
	return s.seed
}

// Engine returns the bit generator in use
func (s *Stream) Engine() Engine {
	return s.engine
}

// Fork draws one Next() and returns a Stream of the same engine seeded
// with it.
func (s *Stream) Fork() (ports.Random, error) {
	n, err := s.Next()
	if err != nil {
		return nil, err
	}
	return New(int32(n), WithEngine(s.engine)), nil
}

func (s *Stream) String() string {
	return fmt.Sprintf("Stream includes %s engine, seed=%d", s.engine, s.seed)
}

func (s *Stream) Next() (int, error) {
	return int(s.rng.Int31n(math.MaxInt32)), nil
}

func (s *Stream) NextN(max int) (int, error) {
	if max < 0 {
		return 0, core.NewInvalidArgumentError("NextN", "max %d must be >= 0", max)
	}
	if max == 0 {
		return 0, nil
	}
	return int(s.rng.Int63n(int64(max))), nil
}

func (s *Stream) NextRange(min, max int) (int, error) {
	if max < min {
		return 0, core.NewInvalidArgumentError("NextRange", "max %d must be >= min %d", max, min)
	}
	if min == max {
		return min, nil
	}
	span := uint64(int64(max) - int64(min))
	if span > math.MaxInt64 {
		// only reachable with 64-bit ints spanning more than half the domain
		return int(int64(min) + int64(uniformUint64(s.rng.Uint64, span))), nil
	}
	return int(int64(min) + s.rng.Int63n(int64(span))), nil
}

// uniformUint64 returns a value in [0, n) from next, rejecting the lowest
// 2^64 mod n draws so every result is equally likely.
func uniformUint64(next func() uint64, n uint64) uint64 {
	threshold := -n % n
	for {
		if v := next(); v >= threshold {
			return v % n
		}
	}
}

// NextBytes fills buf from 64-bit draws, 8 bytes at a time; leftover bits
// of the last draw are discarded so no partial word carries over.
func (s *Stream) NextBytes(buf []byte) error {
	var word [8]byte
	for len(buf) > 0 {
		binary.LittleEndian.PutUint64(word[:], s.src.Uint64())
		n := copy(buf, word[:])
		buf = buf[n:]
	}
	return nil
}

func (s *Stream) NextDouble() (float64, error) {
	return s.rng.Float64(), nil
}

// Value returns NextDouble narrowed to float32; narrowing may round up to 1.
func (s *Stream) Value() (float32, error) {
	d, err := s.NextDouble()
	if err != nil {
		return 0, err
	}
	return float32(d), nil
}

func (s *Stream) Range(min, max float32) (float32, error) {
	return geometry.Range(s, min, max)
}

func (s *Stream) RangeInt(min, max int) (int, error) {
	return s.NextRange(min, max)
}

func (s *Stream) InsideUnitSphere() (r3.Vec, error) {
	return geometry.InsideUnitSphere(s)
}

func (s *Stream) InsideUnitCircle() (r2.Vec, error) {
	return geometry.InsideUnitCircle(s)
}

func (s *Stream) OnUnitSphere() (r3.Vec, error) {
	return geometry.OnUnitSphere(s)
}

func (s *Stream) Rotation() (quat.Number, error) {
	return geometry.Rotation(s)
}

func (s *Stream) RotationUniform() (quat.Number, error) {
	return geometry.RotationUniform(s)
}

func (s *Stream) ColorHSV(r geometry.HSVRange) (geometry.Color, error) {
	return geometry.ColorHSV(s, r)
}

// State snapshots the engine state. EngineStandard returns
// core.ErrNotAvailable.
func (s *Stream) State() ([]byte, error) {
	snap, ok := s.src.(snapshotter)
	if !ok {
		return nil, core.NewNotAvailableError(string(s.engine))
	}
	return snap.MarshalBinary()
}

// SetState restores a snapshot taken with State on the same engine.
// The declared seed is kept.
func (s *Stream) SetState(state []byte) error {
	snap, ok := s.src.(snapshotter)
	if !ok {
		return core.NewNotAvailableError(string(s.engine))
	}
	return snap.UnmarshalBinary(state)
}

var (
	_ ports.Random        = (*Stream)(nil)
	_ ports.StateAccessor = (*Stream)(nil)
)
