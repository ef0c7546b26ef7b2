package app

import (
	"context"
	"math"
	"strings"
	"sync"

	"seedrand/domain/core"
	"seedrand/internal"
	"seedrand/ports"
)

// seedTolerance bounds the difference ValidateSeed accepts per draw
const seedTolerance = 1e-12

// StreamService hands out named, reproducible streams and remembers the
// seeds it issued. The service is safe for concurrent use; the streams it
// returns are not.
type StreamService struct {
	newStream ports.StreamFactory
	logger    *internal.Logger
	maxIssued int

	mu     sync.Mutex
	issued []ports.IssuedStream
	// next is the ring slot the next entry overwrites once issued is full
	next int
}

// StreamServiceOption configures a StreamService
type StreamServiceOption func(*StreamService)

// WithMaxIssued keeps only the latest n ledger entries. n <= 0 keeps all.
func WithMaxIssued(n int) StreamServiceOption {
	return func(s *StreamService) {
		s.maxIssued = n
	}
}

// NewStreamService creates a stream service building streams with newStream
func NewStreamService(newStream ports.StreamFactory, logger *internal.Logger, opts ...StreamServiceOption) *StreamService {
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	s := &StreamService{
		newStream: newStream,
		logger:    logger.With("streams"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeededStream creates a deterministic stream for a named operation
func (s *StreamService) SeededStream(ctx context.Context, name string, seed int32) (ports.Random, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.newStream(seed)
	s.record(name, seed)
	return r, nil
}

// Stream derives the seed from baseSeed and the non-empty identifiers, so
// the same run/stage/key always replays the same sequence.
func (s *StreamService) Stream(ctx context.Context, runID, stageName, key string, baseSeed int32) (ports.Random, error) {
	seed := core.DeriveSeed(baseSeed, runID, stageName, key)
	return s.SeededStream(ctx, StreamName(runID, stageName, key), seed)
}

// ValidateSeed draws len(expected) doubles from a fresh stream and compares
// them with expected.
func (s *StreamService) ValidateSeed(ctx context.Context, name string, seed int32, expected []float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := s.newStream(seed)
	for i, want := range expected {
		got, err := r.NextDouble()
		if err != nil {
			return err
		}
		if math.Abs(got-want) > seedTolerance {
			s.logger.Warn("seed %d for %s diverged at draw %d", seed, name, i)
			return core.NewSeedMismatchError(name, seed, i, want, got)
		}
	}
	return nil
}

// Issued returns the retained ledger entries, oldest first
func (s *StreamService) Issued() []ports.IssuedStream {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.IssuedStream, 0, len(s.issued))
	out = append(out, s.issued[s.next:]...)
	return append(out, s.issued[:s.next]...)
}

func (s *StreamService) record(name string, seed int32) {
	entry := ports.IssuedStream{ID: core.StreamID(core.NewID()), Name: name, Seed: seed}

	s.mu.Lock()
	if s.maxIssued > 0 && len(s.issued) == s.maxIssued {
		s.issued[s.next] = entry
		s.next = (s.next + 1) % s.maxIssued
	} else {
		s.issued = append(s.issued, entry)
	}
	s.mu.Unlock()

	s.logger.Debug("issued stream %s (%s) seed=%d", entry.Name, entry.ID, entry.Seed)
}

// StreamName joins the non-empty parts with "/"
func StreamName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

var _ ports.RNGPort = (*StreamService)(nil)
