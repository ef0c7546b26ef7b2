package random

import (
	"encoding"
	"encoding/binary"
	"math/rand"
	randv2 "math/rand/v2"
	"strings"

	"seedrand/domain/core"
)

// Engine names the bit generator behind a Stream
type Engine string

const (
	// EngineStandard is math/rand's additive lagged Fibonacci source.
	// It cannot snapshot its state.
	EngineStandard Engine = "standard"
	// EnginePCG is math/rand/v2's PCG; state can be snapshotted.
	EnginePCG Engine = "pcg"
	// EngineSplitMix is SplitMix64; state can be snapshotted.
	EngineSplitMix Engine = "splitmix"
)

// Engines lists every supported engine
func Engines() []Engine {
	return []Engine{EngineStandard, EnginePCG, EngineSplitMix}
}

// ParseEngine converts a name into an Engine
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(name))); e {
	case EngineStandard, EnginePCG, EngineSplitMix:
		return e, nil
	case "":
		return EngineStandard, nil
	default:
		return "", core.NewInvalidArgumentError("ParseEngine", "unknown engine %q", name)
	}
}

func (e Engine) String() string { return string(e) }

// newSource builds the engine's source from an already normalised seed.
func (e Engine) newSource(seed int64) (rand.Source64, error) {
	switch e {
	case EngineStandard:
		return rand.NewSource(seed).(rand.Source64), nil
	case EnginePCG:
		return newPCGSource(seed), nil
	case EngineSplitMix:
		return newSplitMixSource(seed), nil
	default:
		return nil, core.NewInvalidArgumentError("newSource", "unknown engine %q", string(e))
	}
}

// snapshotter is implemented by sources whose state round-trips exactly.
type snapshotter interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// pcgSource adapts math/rand/v2's PCG to the math/rand Source64 interface.
type pcgSource struct {
	pcg *randv2.PCG
}

func newPCGSource(seed int64) *pcgSource {
	s := &pcgSource{pcg: randv2.NewPCG(0, 0)}
	s.Seed(seed)
	return s
}

func (s *pcgSource) Seed(seed int64) {
	s.pcg.Seed(uint64(seed), splitmixTransform(uint64(seed)))
}

func (s *pcgSource) Uint64() uint64 {
	return s.pcg.Uint64()
}

func (s *pcgSource) Int63() int64 {
	return int64(s.pcg.Uint64() >> 1)
}

func (s *pcgSource) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary()
}

func (s *pcgSource) UnmarshalBinary(data []byte) error {
	if err := s.pcg.UnmarshalBinary(data); err != nil {
		return core.NewInvalidArgumentError("SetState", "pcg state: %v", err)
	}
	return nil
}

const (
	maxInt63       = (1 << 63) - 1
	splitmixGamma  = 0x9e3779b97f4a7c15
	splitmixPrefix = "splitmix:"
)

// splitMixSource is a single-owner SplitMix64 generator.
type splitMixSource struct {
	state uint64
}

func newSplitMixSource(seed int64) *splitMixSource {
	s := &splitMixSource{}
	s.Seed(seed)
	return s
}

func (s *splitMixSource) Seed(seed int64) {
	s.state = splitmixTransform(uint64(seed))
}

func (s *splitMixSource) Uint64() uint64 {
	s.state += splitmixGamma
	return splitmixTransform(s.state)
}

func (s *splitMixSource) Int63() int64 {
	return int64(s.Uint64() & maxInt63)
}

func (s *splitMixSource) MarshalBinary() ([]byte, error) {
	out := make([]byte, len(splitmixPrefix), len(splitmixPrefix)+8)
	copy(out, splitmixPrefix)
	return binary.BigEndian.AppendUint64(out, s.state), nil
}

func (s *splitMixSource) UnmarshalBinary(data []byte) error {
	if len(data) != len(splitmixPrefix)+8 || string(data[:len(splitmixPrefix)]) != splitmixPrefix {
		return core.NewInvalidArgumentError("SetState", "splitmix state must be %d bytes with prefix %q", len(splitmixPrefix)+8, splitmixPrefix)
	}
	s.state = binary.BigEndian.Uint64(data[len(splitmixPrefix):])
	return nil
}

func splitmixTransform(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

var (
	_ snapshotter = (*pcgSource)(nil)
	_ snapshotter = (*splitMixSource)(nil)
)
