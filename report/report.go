// Package report assembles a standalone HTML diagnostics page from a
// computed drought analysis: a markdown narrative, interactive charts for
// the drought index and precipitation variability, rendered chart images,
// and recent Drought Monitor bulletins.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"droughtcast/internal/config"
	"droughtcast/spei"
	"droughtcast/timeseries"
	"droughtcast/usdm"
	"droughtcast/variability"
)

// Analysis is one completed drought analysis run
type Analysis struct {
	// Site labels the report, the station identifier when unset
	Site string
	// Station is the queried station identifier list
	Station string
	// GeneratedAt stamps the report and names its storage folder
	GeneratedAt time.Time
	// Index is the fitted drought index
	Index *spei.Result
	// Variability is the rolling precipitation variability
	Variability *variability.Result
	// Bulletins are recent Drought Monitor releases, may be empty
	Bulletins []usdm.Bulletin
	// ChartFiles names rendered PNG charts stored alongside the page
	ChartFiles []string
}

// Title returns the report heading label
func (a *Analysis) Title() string {
	if a.Site != "" {
		return a.Site
	}
	return a.Station
}

// Summary writes the built-in markdown narrative used when no caller- or
// model-provided narrative exists
func (a *Analysis) Summary() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Drought conditions at %s\n\n", a.Title())

	if a.Index != nil {
		fitted := a.Index.Fitted
		latest, latestTime, ok := lastFinite(fitted)
		if ok {
			fmt.Fprintf(&b, "The %d-month SPEI stands at %.2f as of %s. ",
				a.Index.Scale, latest, latestTime.Format("January 2006"))
			switch {
			case latest <= -2:
				b.WriteString("This indicates severe drought.\n\n")
			case latest <= -1:
				b.WriteString("This indicates moderate drought.\n\n")
			case latest < 1:
				b.WriteString("Conditions are near normal.\n\n")
			default:
				b.WriteString("Conditions are wetter than normal.\n\n")
			}
		}
		if months := droughtMonths(fitted); months > 0 {
			fmt.Fprintf(&b, "%d month(s) in the record fall below the moderate drought threshold (SPEI -1).\n\n", months)
		}
	}

	if a.Variability != nil {
		if cv := a.Variability.CV.Mean(); !math.IsNaN(cv) {
			fmt.Fprintf(&b, "Mean rolling coefficient of variation of precipitation: %.3f.\n", cv)
		}
	}

	return b.String()
}

// lastFinite returns the most recent finite value of a series
func lastFinite(s *timeseries.Series) (float64, time.Time, bool) {
	for i := s.Len() - 1; i >= 0; i-- {
		v := s.Value(i)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, s.Time(i), true
		}
	}
	return 0, time.Time{}, false
}

// droughtMonths counts fitted values below the moderate drought threshold
func droughtMonths(s *timeseries.Series) int {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if v := s.Value(i); v < -1 && !math.IsInf(v, 0) {
			count++
		}
	}
	return count
}

// Builder turns analyses into complete HTML pages
type Builder struct {
	md goldmark.Markdown
}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
		),
	)
	return &Builder{
		md: md,
	}
}

// Build renders the analysis into a standalone HTML page. An empty
// narrative falls back to the built-in summary.
func (b *Builder) Build(analysis *Analysis, narrative string) (string, error) {
	if narrative == "" {
		narrative = analysis.Summary()
	}

	var content bytes.Buffer
	if err := b.md.Convert([]byte(narrative), &content); err != nil {
		return "", fmt.Errorf("report: failed to convert narrative markdown: %w", err)
	}

	var indexChart, cvChart template.HTML
	if analysis.Index != nil {
		chart, err := indexLineChart(analysis.Index, analysis.Title())
		if err != nil {
			return "", err
		}
		indexChart = chart
	}
	if analysis.Variability != nil {
		chart, err := cvLineChart(analysis.Variability, analysis.Title())
		if err != nil {
			return "", err
		}
		cvChart = chart
	}

	data := pageData{
		Title:       analysis.Title(),
		GeneratedAt: analysis.GeneratedAt.Format("2006-01-02 15:04 UTC"),
		Version:     config.GetVersion(),
		Content:     template.HTML(content.String()),
		IndexChart:  indexChart,
		CVChart:     cvChart,
		ChartFiles:  analysis.ChartFiles,
		Bulletins:   analysis.Bulletins,
	}

	var page bytes.Buffer
	if err := pageTemplate.Execute(&page, data); err != nil {
		return "", fmt.Errorf("report: failed to execute page template: %w", err)
	}
	return page.String(), nil
}

// pageData feeds the page template
type pageData struct {
	Title       string
	GeneratedAt string
	Version     string
	Content     template.HTML
	IndexChart  template.HTML
	CVChart     template.HTML
	ChartFiles  []string
	Bulletins   []usdm.Bulletin
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Drought Report - {{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 960px; margin: 0 auto; padding: 2em; color: #222; }
h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; }
.meta { color: #666; font-size: 0.9em; }
.chart-section { margin: 2em 0; }
.chart-image { max-width: 100%; border: 1px solid #ddd; }
.bulletins li { margin-bottom: 0.5em; }
footer { margin-top: 3em; border-top: 1px solid #ddd; color: #888; font-size: 0.8em; }
</style>
</head>
<body>
<p class="meta">Generated {{.GeneratedAt}}</p>
<div class="narrative">
{{.Content}}</div>
{{if .IndexChart}}<div class="chart-section">
{{.IndexChart}}</div>
{{end}}{{if .CVChart}}<div class="chart-section">
{{.CVChart}}</div>
{{end}}{{range .ChartFiles}}<div class="chart-section">
<img class="chart-image" src="{{.}}" alt="{{.}}">
</div>
{{end}}{{if .Bulletins}}<h2>U.S. Drought Monitor</h2>
<ul class="bulletins">
{{range .Bulletins}}<li><a href="{{.Link}}">{{.Title}}</a> ({{.Published.Format "2006-01-02"}})</li>
{{end}}</ul>
{{end}}<footer>droughtcast {{.Version}}</footer>
</body>
</html>
`))
