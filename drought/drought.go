package drought

import (
	"fmt"

	"droughtcast/charts"
	"droughtcast/internal/logger"
	"droughtcast/spei"
	"droughtcast/timeseries"
)

// DefaultScale is the integration scale used when none is given
const DefaultScale = 12

// Anchor selects which end of a series fixes the calendar grid
type Anchor int

const (
	// AnchorStart aligns the monthly grid to the first observation
	AnchorStart Anchor = iota
	// AnchorEnd aligns the monthly grid to the last observation
	AnchorEnd
)

// IndexOptions configure a drought index computation
type IndexOptions struct {
	// Scale is the integration scale in periods, DefaultScale when zero
	Scale int
	// IgnoreMissing passes input gaps through as missing index values
	// instead of failing
	IgnoreMissing bool
	// Anchor fixes the calendar grid at the first or last observation
	Anchor Anchor
	// Site labels plots and log entries
	Site string
	// Plot renders a diagnostic chart of the fitted index
	Plot bool
	// Charts receives the diagnostic chart, current directory when nil
	Charts *charts.Generator
}

// WaterBalance returns the climatic water difference, precipitation minus
// potential evapotranspiration, aligned by timestamp
func WaterBalance(precip, pet *timeseries.Series) (*timeseries.Series, error) {
	diff, err := timeseries.Sub(precip, pet)
	if err != nil {
		return nil, fmt.Errorf("water balance: %w", err)
	}
	return diff, nil
}

// Index computes the drought index of a water-difference series. The series
// is re-anchored onto a regular monthly grid per the anchor policy, fitted
// at the requested integration scale, and checked for excess missing
// values: anything beyond the unavoidable accumulation warmup logs a
// warning while the result is still returned in full.
func Index(wb *timeseries.Series, opts IndexOptions) (*spei.Result, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}

	result, err := spei.Fit(anchorSeries(wb, opts.Anchor), scale, spei.Options{
		IgnoreMissing: opts.IgnoreMissing,
	})
	if err != nil {
		return nil, err
	}

	if missing := result.Fitted.MissingCount(); missing > scale-1 {
		logger.Warn("drought index likely contains invalid values", map[string]interface{}{
			"site":    opts.Site,
			"scale":   scale,
			"missing": missing,
			"allowed": scale - 1,
		})
	}

	if opts.Plot {
		generator := opts.Charts
		if generator == nil {
			generator = charts.NewGenerator(".")
		}
		if _, err := generator.DroughtIndex(result.Fitted, opts.Site, scale); err != nil {
			logger.Warn("failed to render drought index chart", map[string]interface{}{
				"site":  opts.Site,
				"error": err.Error(),
			})
		}
	}

	return result, nil
}

// anchorSeries rebuilds a series on a regular monthly grid fixed at one end
func anchorSeries(wb *timeseries.Series, policy Anchor) *timeseries.Series {
	if policy == AnchorEnd {
		last := wb.Last()
		return timeseries.MonthlyEnding(last.Year(), last.Month(), wb.Values())
	}
	first := wb.First()
	return timeseries.MonthlyStarting(first.Year(), first.Month(), wb.Values())
}
