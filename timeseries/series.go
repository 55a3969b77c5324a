package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmpty indicates a series with no observations
	ErrEmpty = errors.New("timeseries: empty series")
	// ErrLengthMismatch indicates timestamps and values of different lengths
	ErrLengthMismatch = errors.New("timeseries: timestamps and values differ in length")
	// ErrNotIncreasing indicates timestamps that are not strictly increasing
	ErrNotIncreasing = errors.New("timeseries: timestamps not strictly increasing")
	// ErrMisaligned indicates two series whose timestamps do not match
	ErrMisaligned = errors.New("timeseries: series timestamps misaligned")
	// ErrWindow indicates a rolling window size outside [1, series length]
	ErrWindow = errors.New("timeseries: invalid window size")
)

// Series is an ordered sequence of (timestamp, value) pairs with one value
// per period. NaN marks a missing value.
type Series struct {
	times  []time.Time
	values []float64
}

// New creates a series from parallel timestamp and value slices
func New(times []time.Time, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps, %d values", ErrLengthMismatch, len(times), len(values))
	}
	if len(times) == 0 {
		return nil, ErrEmpty
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("%w: index %d (%s) not after index %d (%s)",
				ErrNotIncreasing, i, times[i].Format("2006-01-02"), i-1, times[i-1].Format("2006-01-02"))
		}
	}
	s := &Series{
		times:  make([]time.Time, len(times)),
		values: make([]float64, len(values)),
	}
	copy(s.times, times)
	copy(s.values, values)
	return s, nil
}

// MonthlyStarting creates a monthly series whose first observation falls in
// the given year and month
func MonthlyStarting(year int, month time.Month, values []float64) *Series {
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = time.Date(year, time.Month(int(month)+i), 1, 0, 0, 0, 0, time.UTC)
	}
	s, _ := New(times, values)
	return s
}

// MonthlyEnding creates a monthly series whose last observation falls in
// the given year and month
func MonthlyEnding(year int, month time.Month, values []float64) *Series {
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = time.Date(year, time.Month(int(month)-len(values)+1+i), 1, 0, 0, 0, 0, time.UTC)
	}
	s, _ := New(times, values)
	return s
}

// Len returns the number of observations
func (s *Series) Len() int {
	return len(s.values)
}

// Time returns the timestamp at position i
func (s *Series) Time(i int) time.Time {
	return s.times[i]
}

// Value returns the value at position i
func (s *Series) Value(i int) float64 {
	return s.values[i]
}

// First returns the timestamp of the first observation
func (s *Series) First() time.Time {
	return s.times[0]
}

// Last returns the timestamp of the last observation
func (s *Series) Last() time.Time {
	return s.times[len(s.times)-1]
}

// Times returns a copy of the timestamps
func (s *Series) Times() []time.Time {
	out := make([]time.Time, len(s.times))
	copy(out, s.times)
	return out
}

// Values returns a copy of the values
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// WithValues returns a new series with the same timestamps and the given values
func (s *Series) WithValues(values []float64) (*Series, error) {
	if len(values) != len(s.times) {
		return nil, fmt.Errorf("%w: %d timestamps, %d values", ErrLengthMismatch, len(s.times), len(values))
	}
	return New(s.times, values)
}

// Min returns the smallest finite value, or NaN if none exists
func (s *Series) Min() float64 {
	min := math.NaN()
	for _, v := range s.values {
		if !isFinite(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Mean returns the mean of the finite values, or NaN if none exists
func (s *Series) Mean() float64 {
	finite := s.finiteValues()
	if len(finite) == 0 {
		return math.NaN()
	}
	return stat.Mean(finite, nil)
}

// StdDev returns the sample standard deviation of the finite values
func (s *Series) StdDev() float64 {
	finite := s.finiteValues()
	if len(finite) < 2 {
		return math.NaN()
	}
	return stat.StdDev(finite, nil)
}

// MissingCount returns the number of non-finite values
func (s *Series) MissingCount() int {
	count := 0
	for _, v := range s.values {
		if !isFinite(v) {
			count++
		}
	}
	return count
}

// Shift returns a new series with delta added to every value
func (s *Series) Shift(delta float64) *Series {
	values := make([]float64, len(s.values))
	for i, v := range s.values {
		values[i] = v + delta
	}
	out, _ := New(s.times, values)
	return out
}

// Positivize returns a new series translated upward so its smallest finite
// value is exactly zero
func (s *Series) Positivize() *Series {
	min := s.Min()
	if math.IsNaN(min) {
		return s.Shift(0)
	}
	return s.Shift(-min)
}

// Slice returns the sub-series over positions [start, end)
func (s *Series) Slice(start, end int) (*Series, error) {
	if start < 0 || end > len(s.values) || start >= end {
		return nil, fmt.Errorf("%w: [%d, %d) of length %d", ErrWindow, start, end, len(s.values))
	}
	return New(s.times[start:end], s.values[start:end])
}

// Sub returns the element-wise difference a - b. Both series must have
// identical timestamps; any mismatch fails rather than subtracting by
// position.
func Sub(a, b *Series) (*Series, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: lengths %d and %d", ErrMisaligned, a.Len(), b.Len())
	}
	values := make([]float64, a.Len())
	for i := range a.values {
		if !a.times[i].Equal(b.times[i]) {
			return nil, fmt.Errorf("%w: index %d (%s vs %s)",
				ErrMisaligned, i, a.times[i].Format("2006-01-02"), b.times[i].Format("2006-01-02"))
		}
		values[i] = a.values[i] - b.values[i]
	}
	return New(a.times, values)
}

// finiteValues returns the finite values in order
func (s *Series) finiteValues() []float64 {
	finite := make([]float64, 0, len(s.values))
	for _, v := range s.values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	return finite
}

// isFinite reports whether v is neither NaN nor infinite
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
