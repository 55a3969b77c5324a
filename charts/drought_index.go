package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"droughtcast/timeseries"
)

// DroughtIndex renders a fitted drought-index series with severity threshold
// lines, returning the written file path. Missing index values are left off
// the chart.
func (g *Generator) DroughtIndex(fitted *timeseries.Series, site string, scale int) (string, error) {
	filename := filepath.Join(g.outputDir, fmt.Sprintf("spei_%d%s.png", scale, fileSlug(site)))

	xValues, yValues, err := seriesPoints(fitted)
	if err != nil {
		return "", fmt.Errorf("drought index chart: %w", err)
	}

	mainSeries := chart.TimeSeries{
		Name: fmt.Sprintf("SPEI-%d", scale),
		Style: chart.Style{
			StrokeColor: drawing.Color{R: 51, G: 102, B: 204, A: 255}, // Blue
			StrokeWidth: 2,
		},
		XValues: xValues,
		YValues: yValues,
	}

	minTime := xValues[0]
	maxTime := xValues[len(xValues)-1]

	// Severity thresholds: moderate drought below -1, severe below -2
	moderateLine := chart.TimeSeries{
		Name: "Moderate drought",
		Style: chart.Style{
			StrokeColor:     drawing.Color{R: 255, G: 165, B: 0, A: 200}, // Orange
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []time.Time{minTime, maxTime},
		YValues: []float64{-1, -1},
	}
	severeLine := chart.TimeSeries{
		Name: "Severe drought",
		Style: chart.Style{
			StrokeColor:     drawing.Color{R: 255, G: 0, B: 0, A: 200}, // Red
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []time.Time{minTime, maxTime},
		YValues: []float64{-2, -2},
	}
	zeroLine := chart.TimeSeries{
		Name: "Normal",
		Style: chart.Style{
			StrokeColor:     drawing.Color{R: 128, G: 128, B: 128, A: 150}, // Gray
			StrokeWidth:     1,
			StrokeDashArray: []float64{2, 4},
		},
		XValues: []time.Time{minTime, maxTime},
		YValues: []float64{0, 0},
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("SPEI-%d Drought Index%s", scale, titleSuffix(site)),
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   70,
				Right:  20,
				Bottom: 60,
			},
		},
		Height: 350,
		Width:  900,
		XAxis:  baseXAxis(),
		YAxis: chart.YAxis{
			Name: "Index",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: []chart.Series{mainSeries, zeroLine, moderateLine, severeLine},
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create drought index chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render drought index chart: %w", err)
	}

	return filename, nil
}
