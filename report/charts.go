package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"droughtcast/spei"
	"droughtcast/timeseries"
	"droughtcast/variability"
)

// indexLineChart renders the fitted drought index as an interactive line
func indexLineChart(result *spei.Result, title string) (template.HTML, error) {
	return lineChart(
		result.Fitted,
		fmt.Sprintf("SPEI-%d", result.Scale),
		title,
		fmt.Sprintf("Drought index, %d-month integration scale", result.Scale),
	)
}

// cvLineChart renders the rolling coefficient of variation as an
// interactive line
func cvLineChart(result *variability.Result, title string) (template.HTML, error) {
	return lineChart(
		result.CV,
		"Rolling CV",
		title,
		"Rolling coefficient of variation of precipitation",
	)
}

// lineChart builds one go-echarts line from a series, dropping missing
// points the way the PNG charts do
func lineChart(s *timeseries.Series, seriesName, title, subtitle string) (template.HTML, error) {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "900px",
			Height: "400px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name: "Month",
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name: seriesName,
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)

	var xAxis []string
	var points []opts.LineData
	for i := 0; i < s.Len(); i++ {
		v := s.Value(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xAxis = append(xAxis, s.Time(i).Format("2006-01"))
		points = append(points, opts.LineData{Value: v})
	}
	if len(points) == 0 {
		return "", fmt.Errorf("report: no finite points to chart for %s", seriesName)
	}

	line.SetXAxis(xAxis).
		AddSeries(seriesName, points).
		SetSeriesOptions(echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("report: failed to render %s chart: %w", seriesName, err)
	}
	return template.HTML(buf.String()), nil
}
