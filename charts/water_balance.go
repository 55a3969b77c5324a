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

// WaterBalance renders a climatic water difference series around its zero
// line, returning the written file path
func (g *Generator) WaterBalance(wb *timeseries.Series, site string) (string, error) {
	filename := filepath.Join(g.outputDir, fmt.Sprintf("water_balance%s.png", fileSlug(site)))

	xValues, yValues, err := seriesPoints(wb)
	if err != nil {
		return "", fmt.Errorf("water balance chart: %w", err)
	}

	mainSeries := chart.TimeSeries{
		Name: "P - PET",
		Style: chart.Style{
			StrokeColor: drawing.Color{R: 0, G: 128, B: 96, A: 255}, // Teal
			StrokeWidth: 2,
		},
		XValues: xValues,
		YValues: yValues,
	}

	// Surplus above zero, deficit below
	zeroLine := chart.TimeSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor:     drawing.Color{R: 128, G: 128, B: 128, A: 150}, // Gray
			StrokeWidth:     1,
			StrokeDashArray: []float64{2, 4},
		},
		XValues: []time.Time{xValues[0], xValues[len(xValues)-1]},
		YValues: []float64{0, 0},
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Climatic Water Balance%s", titleSuffix(site)),
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
			Name: "mm",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: []chart.Series{mainSeries, zeroLine},
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create water balance chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render water balance chart: %w", err)
	}

	return filename, nil
}
