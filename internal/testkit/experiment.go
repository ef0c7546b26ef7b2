// Package testkit provides statistical helpers for tests that exercise
// random streams: repeated experiments, descriptive summaries and
// goodness-of-fit checks.
package testkit

import (
	"fmt"
)

// Samples holds the outcome of an experiment
type Samples[T any] struct {
	Values []T
}

// Run calls draw n times and collects the results. The first error aborts
// the experiment.
func Run[T any](n int, draw func() (T, error)) (Samples[T], error) {
	if n <= 0 {
		return Samples[T]{}, fmt.Errorf("experiment needs at least one trial, got %d", n)
	}

	values := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := draw()
		if err != nil {
			return Samples[T]{}, fmt.Errorf("trial %d: %w", i, err)
		}
		values = append(values, v)
	}
	return Samples[T]{Values: values}, nil
}

// Floats projects each sample to a float64
func (s Samples[T]) Floats(project func(T) float64) []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = project(v)
	}
	return out
}

// All reports whether every sample satisfies ok, and the first offender
func (s Samples[T]) All(ok func(T) bool) (bool, int) {
	for i, v := range s.Values {
		if !ok(v) {
			return false, i
		}
	}
	return true, -1
}
