package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"droughtcast/timeseries"
)

// RollingStatistic renders one rolling-window statistic series (mean,
// standard deviation, or coefficient of variation), returning the written
// file path
func (g *Generator) RollingStatistic(s *timeseries.Series, site, statistic string) (string, error) {
	slug := strings.ReplaceAll(strings.ToLower(statistic), " ", "_")
	filename := filepath.Join(g.outputDir, fmt.Sprintf("rolling_%s%s.png", slug, fileSlug(site)))

	xValues, yValues, err := seriesPoints(s)
	if err != nil {
		return "", fmt.Errorf("rolling %s chart: %w", slug, err)
	}

	mainSeries := chart.TimeSeries{
		Name: statistic,
		Style: chart.Style{
			StrokeColor: drawing.Color{R: 153, G: 51, B: 153, A: 255}, // Purple
			StrokeWidth: 2,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Rolling %s%s", statistic, titleSuffix(site)),
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
			Name: statistic,
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create rolling %s chart file: %w", slug, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render rolling %s chart: %w", slug, err)
	}

	return filename, nil
}
