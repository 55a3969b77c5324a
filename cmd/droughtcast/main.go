// Command droughtcast runs a full drought analysis for one station: fetch
// GHCN observations, compute potential evapotranspiration and the drought
// index, compute rolling precipitation variability, render charts, and
// store an HTML report.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"

	"droughtcast/charts"
	"droughtcast/drought"
	"droughtcast/ghcn"
	"droughtcast/internal/config"
	"droughtcast/internal/llm"
	"droughtcast/internal/logger"
	"droughtcast/internal/storage"
	"droughtcast/report"
	"droughtcast/spei"
	"droughtcast/timeseries"
	"droughtcast/usdm"
	"droughtcast/variability"
)

func main() {
	stations := flag.String("stations", "", "comma-delimited GHCN station identifiers (required)")
	start := flag.String("start", "1990-01-01", "range start, YYYY-MM-DD")
	end := flag.String("end", "2020-12-31", "range end, YYYY-MM-DD")
	granularity := flag.String("granularity", "monthly", "summary granularity: annual, monthly, or daily")
	scale := flag.Int("scale", 12, "drought index integration scale in months")
	window := flag.Int("window", 12, "rolling variability window in months")
	site := flag.String("site", "", "site label for columns, charts, and the report")
	bulletins := flag.Bool("bulletins", true, "include U.S. Drought Monitor bulletins")
	flag.Parse()

	if *stations == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load configuration", err)
	}
	configureLogging(cfg)

	if err := run(ctx, cfg, runParams{
		stations:    *stations,
		start:       *start,
		end:         *end,
		granularity: ghcn.Granularity(*granularity),
		scale:       *scale,
		window:      *window,
		site:        *site,
		bulletins:   *bulletins,
	}); err != nil {
		logger.Fatal("drought analysis failed", err)
	}
}

// runParams carries the parsed command line
type runParams struct {
	stations    string
	start       string
	end         string
	granularity ghcn.Granularity
	scale       int
	window      int
	site        string
	bulletins   bool
}

func run(ctx context.Context, cfg *config.Config, params runParams) error {
	generatedAt := time.Now().UTC()

	chartDir, err := os.MkdirTemp("", "droughtcast-charts-")
	if err != nil {
		return fmt.Errorf("creating chart staging directory: %w", err)
	}
	defer os.RemoveAll(chartDir)
	generator := charts.NewGenerator(chartDir)

	client := ghcn.NewClient(ghcn.Options{
		BaseURL:     cfg.NCEIBaseURL,
		StationsURL: cfg.StationsURL,
		Timeout:     cfg.HTTPTimeout,
	})

	logger.Info("fetching observations", map[string]interface{}{
		"stations":    params.stations,
		"start":       params.start,
		"end":         params.end,
		"granularity": string(params.granularity),
	})
	observations, err := client.FetchObservations(ctx, ghcn.Query{
		Stations:       params.stations,
		StartDate:      params.start,
		EndDate:        params.end,
		Granularity:    params.granularity,
		NormalizeDates: true,
	})
	if err != nil {
		return err
	}
	rows, cols := observations.Dims()
	logger.Info("observations fetched", map[string]interface{}{
		"rows": rows, "columns": cols,
	})

	augmented, err := drought.Augment(observations, drought.AugmentOptions{
		Scale:         params.scale,
		IgnoreMissing: true,
		Site:          params.site,
		Plot:          true,
		Charts:        generator,
	})
	if err != nil {
		return err
	}

	fitted, err := seriesFromFrame(augmented, indexColumn(params.scale, params.site))
	if err != nil {
		return err
	}

	precip, err := seriesFromFrame(augmented, "PRCP")
	if err != nil {
		return err
	}
	rolling, err := variability.RollingCV(precip, variability.Options{
		Window:     params.window,
		Positivize: true,
		Site:       params.site,
		Plot:       true,
		Charts:     generator,
	})
	if err != nil {
		return err
	}

	analysis := &report.Analysis{
		Site:        params.site,
		Station:     params.stations,
		GeneratedAt: generatedAt,
		Index: &spei.Result{
			Fitted:    fitted,
			Scale:     params.scale,
			Frequency: spei.Frequency,
		},
		Variability: rolling,
	}

	if params.bulletins {
		feed := usdm.NewClient(usdm.Options{
			FeedURL: cfg.USDMFeedURL,
			Timeout: cfg.HTTPTimeout,
		})
		items, err := feed.FetchBulletins(ctx)
		if err != nil {
			logger.Warn("failed to fetch drought monitor bulletins", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			analysis.Bulletins = items
		}
	}

	analysis.ChartFiles, err = listCharts(chartDir)
	if err != nil {
		return err
	}

	narrative := generateNarrative(ctx, cfg, analysis, params)

	page, err := report.NewBuilder().Build(analysis, narrative)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, storage.Backend(cfg.StorageBackend), cfg.OutputDir, cfg.GCSBucket)
	if err != nil {
		return err
	}
	defer store.Close()

	var csvBuf bytes.Buffer
	if err := augmented.WriteCSV(&csvBuf); err != nil {
		return fmt.Errorf("encoding augmented observations: %w", err)
	}
	if err := store.StoreFile(ctx, csvBuf.Bytes(), "observations.csv", generatedAt); err != nil {
		return err
	}

	path, err := report.Store(ctx, store, analysis, page, chartDir)
	if err != nil {
		return err
	}
	logger.Info("analysis complete", map[string]interface{}{
		"report": path,
	})
	return nil
}

// configureLogging applies the configured level and format to the global
// logger
func configureLogging(cfg *config.Config) {
	l := logger.Global()
	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		l.SetLevel(level)
	}
	if format, ok := logger.ParseFormat(cfg.LogFormat); ok {
		l.SetFormat(format)
	}
}

// indexColumn reproduces the drought index column name Augment appends
func indexColumn(scale int, site string) string {
	name := fmt.Sprintf("SPEI_%d", scale)
	if site != "" {
		name += "_" + site
	}
	return name
}

// seriesFromFrame builds a time series from a frame's DATE column and one
// value column
func seriesFromFrame(df dataframe.DataFrame, column string) (*timeseries.Series, error) {
	records := df.Col("DATE").Records()
	times := make([]time.Time, len(records))
	for i, record := range records {
		parsed, err := time.Parse("2006-01-02", record)
		if err != nil {
			return nil, fmt.Errorf("row %d: unparsable date %q: %w", i+1, record, err)
		}
		times[i] = parsed
	}
	return timeseries.New(times, df.Col(column).Float())
}

// listCharts names the PNG files the generators rendered
func listCharts(chartDir string) ([]string, error) {
	entries, err := os.ReadDir(chartDir)
	if err != nil {
		return nil, fmt.Errorf("listing chart directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// generateNarrative asks the optional LLM for a report narrative, falling
// back to the built-in summary on any failure
func generateNarrative(ctx context.Context, cfg *config.Config, analysis *report.Analysis, params runParams) string {
	if cfg.OpenAIAPIKey == "" {
		return ""
	}

	summary := llm.Summary{
		Site:   analysis.Title(),
		Scale:  params.scale,
		Window: params.window,
	}
	fitted := analysis.Index.Fitted
	summary.Start = fitted.First()
	summary.End = fitted.Last()
	summary.MinIndex = math.Inf(1)
	for i := 0; i < fitted.Len(); i++ {
		v := fitted.Value(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		summary.LatestIndex = v
		if v < summary.MinIndex {
			summary.MinIndex = v
			summary.MinIndexMonth = fitted.Time(i)
		}
		if v < -1 {
			summary.DroughtMonths++
		}
	}
	summary.MeanCV = analysis.Variability.CV.Mean()
	for _, bulletin := range analysis.Bulletins {
		summary.Bulletins = append(summary.Bulletins, bulletin.Title)
	}

	narrative, err := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel).Narrative(ctx, summary)
	if err != nil {
		logger.Warn("narrative generation failed, using built-in summary", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	return narrative
}
