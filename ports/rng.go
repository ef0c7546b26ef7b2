package ports

import (
	"context"

	"seedrand/domain/core"
)

// RNGPort provides seeded random streams for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic stream for a named operation
	SeededStream(ctx context.Context, name string, seed int32) (Random, error)

	// Stream creates a deterministic stream for a specific run/stage/key.
	// The same arguments always yield the same sequence.
	Stream(ctx context.Context, runID, stageName, key string, baseSeed int32) (Random, error)

	// ValidateSeed ensures the seed produces the expected NextDouble draws
	ValidateSeed(ctx context.Context, name string, seed int32, expected []float64) error
}

// StreamFactory builds a fresh Random for a seed.
type StreamFactory func(seed int32) Random

// IssuedStream records a stream handed out by an RNGPort, so a failing run
// can be reproduced from the log.
type IssuedStream struct {
	ID   core.StreamID `json:"id"`
	Name string        `json:"name"`
	Seed int32         `json:"seed"`
}
