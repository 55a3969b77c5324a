// Package ghcn fetches Global Historical Climatology Network observations
// and station metadata from the NCEI access services.
package ghcn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the NCEI Access Data Service endpoint
	DefaultBaseURL = "https://www.ncei.noaa.gov/access/services/data/v1"
	// DefaultVariables is the variable list requested when none is given
	DefaultVariables = "TAVG,TMAX,TMIN,PRCP"
	// DefaultTimeout bounds a single fetch attempt
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrGranularity indicates a summary granularity outside annual, monthly, daily
	ErrGranularity = errors.New("ghcn: unrecognized granularity")
	// ErrStatus indicates a non-success HTTP response
	ErrStatus = errors.New("ghcn: unexpected response status")
	// ErrDateFormat indicates a DATE cell that does not match its granularity
	ErrDateFormat = errors.New("ghcn: unexpected date format")
)

// Granularity selects the summary level of the requested dataset
type Granularity string

const (
	Annual  Granularity = "annual"
	Monthly Granularity = "monthly"
	Daily   Granularity = "daily"
)

// Dataset maps the granularity to the NCEI dataset identifier. The mapping
// is total over the three recognized values and fails for anything else.
func (g Granularity) Dataset() (string, error) {
	switch g {
	case Annual:
		return "global-summary-of-the-year", nil
	case Monthly:
		return "global-summary-of-the-month", nil
	case Daily:
		return "daily-summaries", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrGranularity, string(g))
	}
}

// Options configure a client. The zero value uses the canonical endpoints.
type Options struct {
	// BaseURL overrides the data service endpoint
	BaseURL string
	// StationsURL overrides the station inventory location
	StationsURL string
	// Timeout bounds each fetch attempt, DefaultTimeout when zero
	Timeout time.Duration
}

// Client issues requests against the NCEI access services. Each call makes
// exactly one attempt; there is no retry or backoff.
type Client struct {
	client      *resty.Client
	baseURL     string
	stationsURL string
}

// NewClient creates a client with the given options
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	stationsURL := opts.StationsURL
	if stationsURL == "" {
		stationsURL = DefaultStationsURL
	}

	return &Client{
		client:      client,
		baseURL:     baseURL,
		stationsURL: stationsURL,
	}
}

// Query describes a single observation request
type Query struct {
	// Stations is a comma-delimited station identifier list
	Stations string
	// StartDate is the inclusive range start, ISO YYYY-MM-DD
	StartDate string
	// EndDate is the inclusive range end, ISO YYYY-MM-DD
	EndDate string
	// Variables is a comma-delimited variable list, DefaultVariables when empty
	Variables string
	// Granularity selects the annual, monthly, or daily summary dataset
	Granularity Granularity
	// NormalizeDates rewrites DATE cells onto full calendar dates
	NormalizeDates bool
}

// FetchObservations issues one GET against the data service and parses the
// CSV response into a table. Transport errors, non-success statuses, and
// malformed CSV all surface as failures, never as an empty table.
func (c *Client) FetchObservations(ctx context.Context, query Query) (dataframe.DataFrame, error) {
	dataset, err := query.Granularity.Dataset()
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	variables := query.Variables
	if variables == "" {
		variables = DefaultVariables
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"dataset":           dataset,
			"dataTypes":         variables,
			"stations":          query.Stations,
			"startDate":         query.StartDate,
			"endDate":           query.EndDate,
			"format":            "csv",
			"units":             "metric",
			"includeAttributes": "false",
		}).
		Get(c.baseURL)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ghcn: failed to fetch observations: %w", err)
	}
	if resp.StatusCode() != 200 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	df := dataframe.ReadCSV(strings.NewReader(string(resp.Body())))
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ghcn: failed to parse observations CSV: %w", df.Error())
	}

	if query.NormalizeDates {
		return normalizeDates(df, query.Granularity)
	}
	return df, nil
}

// normalizeDates rewrites the DATE column onto full calendar dates: annual
// rows land on December 31, monthly rows on the last day of their month, and
// daily rows are validated unchanged. All other columns are untouched.
func normalizeDates(df dataframe.DataFrame, granularity Granularity) (dataframe.DataFrame, error) {
	records := df.Col("DATE").Records()
	normalized := make([]string, len(records))
	for i, record := range records {
		date, err := normalizeDate(record, granularity)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		normalized[i] = date
	}
	out := df.Mutate(series.New(normalized, series.String, "DATE"))
	if out.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ghcn: rewriting DATE column: %w", out.Error())
	}
	return out, nil
}

// normalizeDate rewrites one DATE cell per the granularity's date format
func normalizeDate(record string, granularity Granularity) (string, error) {
	switch granularity {
	case Annual:
		parsed, err := time.Parse("2006", record)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not YYYY", ErrDateFormat, record)
		}
		return fmt.Sprintf("%04d-12-31", parsed.Year()), nil
	case Monthly:
		parsed, err := time.Parse("2006-01", record)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not YYYY-MM", ErrDateFormat, record)
		}
		last := lastDayOfMonth(parsed.Year(), parsed.Month())
		return fmt.Sprintf("%04d-%02d-%02d", parsed.Year(), parsed.Month(), last), nil
	case Daily:
		if _, err := time.Parse("2006-01-02", record); err != nil {
			return "", fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrDateFormat, record)
		}
		return record, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrGranularity, string(granularity))
	}
}

// lastDayOfMonth returns the final calendar day of a month, leap years
// included
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
