package variability

import (
	"droughtcast/charts"
	"droughtcast/internal/logger"
	"droughtcast/timeseries"
)

// Options configure a rolling-variability computation
type Options struct {
	// Window is the rolling window size in periods
	Window int
	// Positivize translates the series so its minimum is zero before
	// computing variability, for series that can be zero or negative
	Positivize bool
	// Site labels plots and log entries
	Site string
	// Plot renders diagnostic charts of the three rolling statistics
	Plot bool
	// Charts receives the diagnostic charts, current directory when nil
	Charts *charts.Generator
}

// Result holds the three rolling statistics, all indexed by window-end
// timestamps
type Result struct {
	// Mean is the rolling window mean
	Mean *timeseries.Series
	// StdDev is the rolling window sample standard deviation
	StdDev *timeseries.Series
	// CV is the rolling coefficient of variation, StdDev over Mean
	CV *timeseries.Series
}

// RollingCV computes the rolling coefficient of variation of a series. With
// Positivize set the series is first shifted so its minimum is exactly
// zero, and the returned mean and standard deviation describe the shifted
// series. Each statistic has one value per position with a full trailing
// window.
func RollingCV(s *timeseries.Series, opts Options) (*Result, error) {
	source := s
	if opts.Positivize {
		source = s.Positivize()
	}

	mean, err := source.RollingMean(opts.Window)
	if err != nil {
		return nil, err
	}
	stddev, err := source.RollingStdDev(opts.Window)
	if err != nil {
		return nil, err
	}

	values := make([]float64, mean.Len())
	for i := range values {
		values[i] = stddev.Value(i) / mean.Value(i)
	}
	cv, err := mean.WithValues(values)
	if err != nil {
		return nil, err
	}

	result := &Result{Mean: mean, StdDev: stddev, CV: cv}
	if opts.Plot {
		renderPlots(result, opts)
	}
	return result, nil
}

// renderPlots draws the three rolling statistics, logging and continuing on
// failure
func renderPlots(result *Result, opts Options) {
	generator := opts.Charts
	if generator == nil {
		generator = charts.NewGenerator(".")
	}

	plots := []struct {
		series    *timeseries.Series
		statistic string
	}{
		{result.Mean, "Mean"},
		{result.StdDev, "Standard Deviation"},
		{result.CV, "Coefficient of Variation"},
	}
	for _, p := range plots {
		if _, err := generator.RollingStatistic(p.series, opts.Site, p.statistic); err != nil {
			logger.Warn("failed to render rolling statistic chart", map[string]interface{}{
				"site":      opts.Site,
				"statistic": p.statistic,
				"error":     err.Error(),
			})
		}
	}
}
