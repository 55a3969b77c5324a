package charts

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"droughtcast/timeseries"
)

// ErrTooFewPoints indicates a series with fewer than two plottable values
var ErrTooFewPoints = errors.New("charts: fewer than two finite points")

// Generator renders diagnostic chart images into an output directory
type Generator struct {
	outputDir string
}

// NewGenerator creates a chart generator writing into outputDir
func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
	}
}

// seriesPoints extracts the finite (time, value) pairs of a series
func seriesPoints(s *timeseries.Series) ([]time.Time, []float64, error) {
	var xValues []time.Time
	var yValues []float64
	for i := 0; i < s.Len(); i++ {
		v := s.Value(i)
		if !isPlottable(v) {
			continue
		}
		xValues = append(xValues, s.Time(i))
		yValues = append(yValues, v)
	}
	if len(xValues) < 2 {
		return nil, nil, fmt.Errorf("%w: %d of %d", ErrTooFewPoints, len(xValues), s.Len())
	}
	return xValues, yValues, nil
}

// isPlottable reports whether a value can appear on a chart
func isPlottable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// monthFormatter renders X-axis timestamps as year-month labels
func monthFormatter(v interface{}) string {
	if typed, ok := v.(time.Time); ok {
		return typed.Format("2006-01")
	}
	if typed, ok := v.(float64); ok {
		return time.Unix(0, int64(typed)).UTC().Format("2006-01")
	}
	return ""
}

// titleSuffix appends the site label to a chart title
func titleSuffix(site string) string {
	if site == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", site)
}

// fileSlug turns a site label into a filename-safe suffix
func fileSlug(site string) string {
	if site == "" {
		return ""
	}
	slug := strings.ToLower(site)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	return "_" + strings.Trim(slug, "_")
}

// baseXAxis builds the shared monthly X axis
func baseXAxis() chart.XAxis {
	return chart.XAxis{
		Name: "Month",
		NameStyle: chart.Style{
			FontSize: 12,
		},
		Style: chart.Style{
			FontSize: 9,
		},
		ValueFormatter: monthFormatter,
	}
}
