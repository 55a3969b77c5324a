package spei

import (
	"errors"
	"math"
	"testing"
	"time"

	"droughtcast/timeseries"
)

// yearPattern is a right-skewed ten-year sample. Repeating it for every
// calendar month gives each month group an identical, analytically known
// log-logistic fit.
var yearPattern = []float64{10, 12, 15, 19, 24, 30, 37, 45, 54, 64}

// repeatedYears builds a monthly series where every month of year y carries
// yearPattern[y]
func repeatedYears(t *testing.T) *timeseries.Series {
	t.Helper()
	values := make([]float64, 12*len(yearPattern))
	for y, v := range yearPattern {
		for m := 0; m < 12; m++ {
			values[y*12+m] = v
		}
	}
	return timeseries.MonthlyStarting(2010, time.January, values)
}

func TestFitArgumentValidation(t *testing.T) {
	short := timeseries.MonthlyStarting(2020, time.January, []float64{1, 2, 3})

	tests := []struct {
		name    string
		series  *timeseries.Series
		scale   int
		opts    Options
		wantErr error
	}{
		{
			name:    "zero scale",
			series:  short,
			scale:   0,
			wantErr: ErrScale,
		},
		{
			name:    "negative scale",
			series:  short,
			scale:   -6,
			wantErr: ErrScale,
		},
		{
			name:    "series shorter than scale",
			series:  short,
			scale:   6,
			wantErr: ErrShortSeries,
		},
		{
			name: "missing values without IgnoreMissing",
			series: timeseries.MonthlyStarting(2020, time.January,
				[]float64{1, math.NaN(), 3, 4}),
			scale:   2,
			wantErr: ErrMissingValues,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Fit(tt.series, tt.scale, tt.opts); !errors.Is(err, tt.wantErr) {
				t.Errorf("Fit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFitScaleOne(t *testing.T) {
	wb := repeatedYears(t)

	result, err := Fit(wb, 1, Options{})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if result.Scale != 1 {
		t.Errorf("Scale = %d, want 1", result.Scale)
	}
	if result.Frequency != 12 {
		t.Errorf("Frequency = %d, want 12", result.Frequency)
	}
	if len(result.Coefficients) != 12 {
		t.Errorf("fitted %d months, want 12", len(result.Coefficients))
	}

	// Every month saw the same sample, so every month fits the same
	// distribution
	for month, coeffs := range result.Coefficients {
		if math.Abs(coeffs.Shape-5.0) > 1e-9 {
			t.Errorf("%v shape = %v, want 5.0", month, coeffs.Shape)
		}
		if math.Abs(coeffs.Location-(-24.0)) > 1e-9 {
			t.Errorf("%v location = %v, want -24.0", month, coeffs.Location)
		}
		if math.Abs(coeffs.Scale-51.452) > 0.01 {
			t.Errorf("%v scale = %v, want about 51.452", month, coeffs.Scale)
		}
	}

	// No accumulation warmup at scale 1, so nothing is missing
	if missing := result.Fitted.MissingCount(); missing != 0 {
		t.Errorf("missing fitted values = %d, want 0", missing)
	}

	// The standardized index straddles zero with a plausible spread
	mean := result.Fitted.Mean()
	if math.Abs(mean) > 0.2 {
		t.Errorf("fitted mean = %v, want near 0", mean)
	}
	var min, max = math.Inf(1), math.Inf(-1)
	for i := 0; i < result.Fitted.Len(); i++ {
		v := result.Fitted.Value(i)
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min > -1.0 || max < 1.0 {
		t.Errorf("fitted range [%v, %v] too narrow for a standardized index", min, max)
	}
	if min < -4.0 || max > 4.0 {
		t.Errorf("fitted range [%v, %v] implausibly wide", min, max)
	}
}

func TestFitMonotoneWithinMonth(t *testing.T) {
	wb := repeatedYears(t)

	result, err := Fit(wb, 1, Options{})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	// Wetter Januaries standardize higher than drier ones
	for y := 1; y < len(yearPattern); y++ {
		prev := result.Fitted.Value((y - 1) * 12)
		curr := result.Fitted.Value(y * 12)
		if curr <= prev {
			t.Errorf("January year %d: fitted %v not above year %d fitted %v",
				y, curr, y-1, prev)
		}
	}
}

func TestFitLeadingWarmup(t *testing.T) {
	wb := repeatedYears(t)
	scale := 6

	result, err := Fit(wb, scale, Options{})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	// Exactly the first scale-1 positions lack a full window
	for i := 0; i < scale-1; i++ {
		if !math.IsNaN(result.Fitted.Value(i)) {
			t.Errorf("position %d = %v, want NaN during warmup", i, result.Fitted.Value(i))
		}
	}
	for i := scale - 1; i < result.Fitted.Len(); i++ {
		if math.IsNaN(result.Fitted.Value(i)) {
			t.Errorf("position %d is NaN after warmup", i)
		}
	}
	if missing := result.Fitted.MissingCount(); missing != scale-1 {
		t.Errorf("missing count = %d, want %d", missing, scale-1)
	}
}

func TestFitIgnoreMissing(t *testing.T) {
	wb := repeatedYears(t)
	values := wb.Values()
	values[37] = math.NaN() // February 2013
	gapped, err := wb.WithValues(values)
	if err != nil {
		t.Fatalf("WithValues() unexpected error: %v", err)
	}

	result, err := Fit(gapped, 1, Options{IgnoreMissing: true})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if !math.IsNaN(result.Fitted.Value(37)) {
		t.Errorf("gapped position = %v, want NaN", result.Fitted.Value(37))
	}
	if missing := result.Fitted.MissingCount(); missing != 1 {
		t.Errorf("missing count = %d, want 1", missing)
	}

	// The gap removes one February sample but the other nine still fit
	if _, ok := result.Coefficients[time.February]; !ok {
		t.Errorf("February lost its fit to a single gap")
	}
}

func TestFitDegenerateMonth(t *testing.T) {
	// A constant series has no spread to fit; the index is undefined
	// everywhere rather than an error
	values := make([]float64, 48)
	for i := range values {
		values[i] = 5.0
	}
	wb := timeseries.MonthlyStarting(2018, time.January, values)

	result, err := Fit(wb, 1, Options{})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}
	if len(result.Coefficients) != 0 {
		t.Errorf("fitted %d months of a constant series, want 0", len(result.Coefficients))
	}
	if missing := result.Fitted.MissingCount(); missing != wb.Len() {
		t.Errorf("missing count = %d, want %d", missing, wb.Len())
	}
}

func TestFitShortMonthGroups(t *testing.T) {
	// Two years of data give each month only two samples, below the
	// minimum the moment fit accepts
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(i%7) + 1
	}
	wb := timeseries.MonthlyStarting(2019, time.January, values)

	result, err := Fit(wb, 1, Options{})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}
	if len(result.Coefficients) != 0 {
		t.Errorf("fitted %d months from two samples each, want 0", len(result.Coefficients))
	}
}

func TestFitPreservesTimestamps(t *testing.T) {
	wb := repeatedYears(t)

	result, err := Fit(wb, 12, Options{})
	if err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if result.Fitted.Len() != wb.Len() {
		t.Fatalf("fitted length = %d, want %d", result.Fitted.Len(), wb.Len())
	}
	for i := 0; i < wb.Len(); i++ {
		if !result.Fitted.Time(i).Equal(wb.Time(i)) {
			t.Errorf("timestamp %d = %v, want %v", i, result.Fitted.Time(i), wb.Time(i))
		}
	}
}

func TestLogLogisticFit(t *testing.T) {
	coeffs, ok := fitLogLogistic(yearPattern)
	if !ok {
		t.Fatalf("fitLogLogistic() failed on a well-behaved sample")
	}
	if math.Abs(coeffs.Shape-5.0) > 1e-9 {
		t.Errorf("Shape = %v, want 5.0", coeffs.Shape)
	}
	if math.Abs(coeffs.Location-(-24.0)) > 1e-9 {
		t.Errorf("Location = %v, want -24.0", coeffs.Location)
	}
	if math.Abs(coeffs.Scale-51.452) > 0.01 {
		t.Errorf("Scale = %v, want about 51.452", coeffs.Scale)
	}
}

func TestLogLogisticCDF(t *testing.T) {
	coeffs := Coefficients{Location: -24.0, Scale: 51.452, Shape: 5.0}

	// Zero at and below the origin
	if p := coeffs.CDF(-24.0); p != 0 {
		t.Errorf("CDF(origin) = %v, want 0", p)
	}
	if p := coeffs.CDF(-100.0); p != 0 {
		t.Errorf("CDF(below origin) = %v, want 0", p)
	}

	// Strictly increasing above the origin, bounded by 1
	prev := 0.0
	for _, x := range []float64{-20, 0, 10, 31, 64, 200, 1000} {
		p := coeffs.CDF(x)
		if p <= prev || p >= 1 {
			t.Errorf("CDF(%v) = %v, want strictly increasing below 1 (prev %v)", x, p, prev)
		}
		prev = p
	}
}

func TestProbabilityWeightedMoments(t *testing.T) {
	b0, b1, b2 := probabilityWeightedMoments(yearPattern)

	if math.Abs(b0-31.0) > 1e-12 {
		t.Errorf("b0 = %v, want 31.0", b0)
	}
	if math.Abs(b1-21.0) > 1e-12 {
		t.Errorf("b1 = %v, want 21.0", b1)
	}
	if math.Abs(b2-16.2) > 1e-12 {
		t.Errorf("b2 = %v, want 16.2", b2)
	}
}
