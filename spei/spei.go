package spei

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"droughtcast/timeseries"
)

// Frequency is the number of periods per cycle for monthly series
const Frequency = 12

// minMonthSample is the smallest per-month sample the moment fit accepts
const minMonthSample = 3

var (
	// ErrScale indicates an integration scale below 1
	ErrScale = errors.New("spei: integration scale must be at least 1")
	// ErrShortSeries indicates a series shorter than the integration scale
	ErrShortSeries = errors.New("spei: series shorter than integration scale")
	// ErrMissingValues indicates missing input values without IgnoreMissing set
	ErrMissingValues = errors.New("spei: series contains missing values")
)

// Options configures a fit
type Options struct {
	// IgnoreMissing treats missing input values as gaps instead of failing.
	// Gapped periods and any accumulation window touching them come back
	// as missing index values.
	IgnoreMissing bool
}

// Result carries the complete fit rather than the standardized series alone
type Result struct {
	// Fitted holds the standardized index, NaN where undefined
	Fitted *timeseries.Series
	// Scale is the integration scale the fit was run with
	Scale int
	// Frequency is the number of periods per cycle
	Frequency int
	// Coefficients holds the fitted distribution per calendar month;
	// months without enough data carry no entry
	Coefficients map[time.Month]Coefficients
}

// Fit computes the Standardized Precipitation-Evapotranspiration Index of a
// monthly water-balance series. The series is accumulated over the trailing
// integration scale, a three-parameter log-logistic distribution is fitted
// per calendar month, and each accumulated value's cumulative probability is
// mapped through the standard normal quantile. Non-finite outcomes become
// missing values, never errors.
func Fit(wb *timeseries.Series, scale int, opts Options) (*Result, error) {
	if scale < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrScale, scale)
	}
	if wb.Len() < scale {
		return nil, fmt.Errorf("%w: length %d, scale %d", ErrShortSeries, wb.Len(), scale)
	}
	if !opts.IgnoreMissing {
		if missing := wb.MissingCount(); missing > 0 {
			return nil, fmt.Errorf("%w: %d of %d values", ErrMissingValues, missing, wb.Len())
		}
	}

	accumulated := accumulate(wb, scale)

	fitted := make([]float64, len(accumulated))
	for i := range fitted {
		fitted[i] = math.NaN()
	}

	coefficients := make(map[time.Month]Coefficients)
	for month := time.January; month <= time.December; month++ {
		indices := monthIndices(wb, month)
		if len(indices) == 0 {
			continue
		}

		sample := make([]float64, 0, len(indices))
		for _, i := range indices {
			if v := accumulated[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
				sample = append(sample, v)
			}
		}
		if len(sample) < minMonthSample {
			continue
		}

		coeffs, ok := fitLogLogistic(sample)
		if !ok {
			continue
		}
		coefficients[month] = coeffs

		for _, i := range indices {
			fitted[i] = standardize(accumulated[i], coeffs)
		}
	}

	series, err := wb.WithValues(fitted)
	if err != nil {
		return nil, err
	}
	return &Result{
		Fitted:       series,
		Scale:        scale,
		Frequency:    Frequency,
		Coefficients: coefficients,
	}, nil
}

// accumulate sums each trailing window of the given scale. Positions before
// a full window has elapsed, and windows touching a missing value, are NaN.
func accumulate(wb *timeseries.Series, scale int) []float64 {
	out := make([]float64, wb.Len())
	for i := range out {
		if i < scale-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - scale + 1; j <= i; j++ {
			sum += wb.Value(j)
		}
		out[i] = sum
	}
	return out
}

// monthIndices returns the positions whose timestamp falls in the given
// calendar month
func monthIndices(s *timeseries.Series, month time.Month) []int {
	var indices []int
	for i := 0; i < s.Len(); i++ {
		if s.Time(i).Month() == month {
			indices = append(indices, i)
		}
	}
	return indices
}

// standardize maps an accumulated value through the fitted distribution and
// the standard normal quantile, returning NaN for anything non-finite
func standardize(value float64, coeffs Coefficients) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return math.NaN()
	}
	p := coeffs.CDF(value)
	if math.IsNaN(p) {
		return math.NaN()
	}
	z := distuv.UnitNormal.Quantile(p)
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return math.NaN()
	}
	return z
}
