package testkit

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary describes a sample of float64 values
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Describe computes the descriptive summary of data
func Describe(data []float64) (Summary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}

	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return Summary{}, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return Summary{}, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return Summary{}, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Count:  len(data),
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Median: median,
	}, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f sd=%.4f min=%.4f median=%.4f max=%.4f",
		s.Count, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
}

// Histogram counts values into equal-width bins over [lo, hi].
// Values equal to hi land in the last bin; values outside are an error.
func Histogram(data []float64, lo, hi float64, bins int) ([]int, error) {
	if bins <= 0 || !(hi > lo) {
		return nil, fmt.Errorf("invalid histogram: bins=%d range=[%v, %v]", bins, lo, hi)
	}

	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	for _, x := range data {
		if math.IsNaN(x) || x < lo || x > hi {
			return nil, fmt.Errorf("value %v outside [%v, %v]", x, lo, hi)
		}
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts, nil
}

// ChiSquareUniform tests observed counts against equal expected counts and
// returns the statistic and its p-value.
func ChiSquareUniform(counts []int) (statistic, pValue float64, err error) {
	if len(counts) < 2 {
		return 0, 0, fmt.Errorf("need at least 2 bins, got %d", len(counts))
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0, 0, fmt.Errorf("no observations")
	}

	expected := float64(total) / float64(len(counts))
	for _, c := range counts {
		d := float64(c) - expected
		statistic += d * d / expected
	}

	chi := distuv.ChiSquared{K: float64(len(counts) - 1)}
	return statistic, chi.Survival(statistic), nil
}
