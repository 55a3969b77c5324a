package timeseries

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// RollingMean computes the mean over a right-aligned trailing window. The
// result is indexed by window-end timestamps and has length Len()-window+1.
// A window containing a missing value yields a missing result.
func (s *Series) RollingMean(window int) (*Series, error) {
	return s.rolling(window, func(w []float64) float64 {
		return stat.Mean(w, nil)
	})
}

// RollingStdDev computes the sample standard deviation over a right-aligned
// trailing window, indexed like RollingMean
func (s *Series) RollingStdDev(window int) (*Series, error) {
	return s.rolling(window, func(w []float64) float64 {
		return stat.StdDev(w, nil)
	})
}

// RollingCV computes the coefficient of variation (standard deviation over
// mean) for each right-aligned trailing window
func (s *Series) RollingCV(window int) (*Series, error) {
	mean, err := s.RollingMean(window)
	if err != nil {
		return nil, err
	}
	stddev, err := s.RollingStdDev(window)
	if err != nil {
		return nil, err
	}
	values := make([]float64, mean.Len())
	for i := range values {
		values[i] = stddev.Value(i) / mean.Value(i)
	}
	return mean.WithValues(values)
}

// rolling applies fn to each full trailing window of the given size
func (s *Series) rolling(window int, fn func([]float64) float64) (*Series, error) {
	if window < 1 || window > s.Len() {
		return nil, fmt.Errorf("%w: %d for series of length %d", ErrWindow, window, s.Len())
	}
	n := s.Len() - window + 1
	times := s.times[window-1:]
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = fn(s.values[i : i+window])
	}
	return New(times, values)
}
