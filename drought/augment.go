package drought

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"droughtcast/charts"
	"droughtcast/pet"
	"droughtcast/timeseries"
)

var (
	// ErrColumn indicates a required column missing from the table
	ErrColumn = errors.New("drought: required column missing")
	// ErrLatitude indicates a latitude column that varies across rows
	ErrLatitude = errors.New("drought: latitude not uniform across rows")
	// ErrDate indicates an unparsable date cell
	ErrDate = errors.New("drought: unparsable date")
)

// AugmentOptions configure a table augmentation
type AugmentOptions struct {
	// DateColumn names the date column, "DATE" when empty
	DateColumn string
	// TempColumn names the mean temperature column, "TAVG" when empty
	TempColumn string
	// PrecipColumn names the precipitation column, "PRCP" when empty
	PrecipColumn string
	// LatitudeColumn names the latitude column, "LATITUDE" when empty
	LatitudeColumn string
	// Scale is the integration scale in periods, DefaultScale when zero
	Scale int
	// IgnoreMissing passes observation gaps through as missing index values
	IgnoreMissing bool
	// Anchor fixes the calendar grid at the first or last observation
	Anchor Anchor
	// Site labels the new columns, plots, and log entries
	Site string
	// Plot renders a diagnostic chart of the fitted index
	Plot bool
	// Charts receives the diagnostic chart, current directory when nil
	Charts *charts.Generator
}

// Augment computes potential evapotranspiration and the drought index for a
// station observation table, returning a new table with a PET column and a
// scale-qualified index column appended. The input table's rows and columns
// are preserved untouched; two calls with different sites or scales append
// columns under distinct names.
func Augment(df dataframe.DataFrame, opts AugmentOptions) (dataframe.DataFrame, error) {
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drought: input table: %w", df.Error())
	}

	dateCol := withDefault(opts.DateColumn, "DATE")
	tempCol := withDefault(opts.TempColumn, "TAVG")
	precipCol := withDefault(opts.PrecipColumn, "PRCP")
	latCol := withDefault(opts.LatitudeColumn, "LATITUDE")

	for _, name := range []string{dateCol, tempCol, precipCol, latCol} {
		if !hasColumn(df, name) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrColumn, name)
		}
	}

	dates, err := parseDates(df.Col(dateCol).Records())
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	latitude, err := uniformLatitude(df.Col(latCol).Float())
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	tempSeries, err := timeseries.New(dates, df.Col(tempCol).Float())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drought: temperature series: %w", err)
	}
	precipSeries, err := timeseries.New(dates, df.Col(precipCol).Float())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drought: precipitation series: %w", err)
	}

	petSeries, err := pet.Thornthwaite(tempSeries, latitude)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	wb, err := WaterBalance(precipSeries, petSeries)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	result, err := Index(wb, IndexOptions{
		Scale:         opts.Scale,
		IgnoreMissing: opts.IgnoreMissing,
		Anchor:        opts.Anchor,
		Site:          opts.Site,
		Plot:          opts.Plot,
		Charts:        opts.Charts,
	})
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	petName := columnName("PET", opts.Site)
	indexName := columnName(fmt.Sprintf("SPEI_%d", result.Scale), opts.Site)

	out := df.Mutate(series.New(petSeries.Values(), series.Float, petName))
	out = out.Mutate(series.New(result.Fitted.Values(), series.Float, indexName))
	if out.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drought: appending columns: %w", out.Error())
	}
	return out, nil
}

// withDefault substitutes a fallback for an empty column name
func withDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// hasColumn reports whether the table carries a column of the given name
func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}

// columnName qualifies a base column name with an optional site label
func columnName(base, site string) string {
	if site == "" {
		return base
	}
	return base + "_" + site
}

// dateLayouts are the accepted date cell formats, most specific first
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parseDates converts date cells into timestamps
func parseDates(records []string) ([]time.Time, error) {
	dates := make([]time.Time, len(records))
	for i, record := range records {
		parsed, err := parseDate(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q", ErrDate, i+1, record)
		}
		dates[i] = parsed
	}
	return dates, nil
}

// parseDate tries the accepted layouts in order
func parseDate(record string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, record)
		if err == nil {
			return parsed, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// uniformLatitude extracts the single latitude a station table must carry
func uniformLatitude(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrLatitude)
	}
	first := values[0]
	if math.IsNaN(first) {
		return 0, fmt.Errorf("%w: row 1 not numeric", ErrLatitude)
	}
	for i, v := range values[1:] {
		if v != first {
			return 0, fmt.Errorf("%w: row 1 has %v, row %d has %v", ErrLatitude, first, i+2, v)
		}
	}
	return first, nil
}
