package ghcn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultStationsURL is the canonical GHCN-Daily station inventory file
const DefaultStationsURL = "https://www.ncei.noaa.gov/pub/data/ghcn/daily/ghcnd-stations.txt"

// ErrStationLine indicates an inventory line that does not match the fixed
// column layout
var ErrStationLine = errors.New("ghcn: malformed station inventory line")

// stationWidths is the fixed-width column layout of the inventory file
var stationWidths = [...]int{12, 9, 10, 7, 3, 30, 4, 4, 6}

// stationFields names the inventory columns in layout order
var stationFields = [...]string{"id", "lat", "lon", "elev", "state", "name", "gsn_flag", "hcn_crn_flag", "wmo_id"}

// stationLineMin is the shortest acceptable line: everything through the
// name column must be present, trailing flag columns may be trimmed
const stationLineMin = 12 + 9 + 10 + 7 + 3 + 1

// FetchStations reads the fixed-width station inventory into a table with
// one row per station. Location may be an HTTP URL or a local path; empty
// selects the client's configured inventory source.
func (c *Client) FetchStations(ctx context.Context, location string) (dataframe.DataFrame, error) {
	if location == "" {
		location = c.stationsURL
	}

	var body string
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		resp, err := c.client.R().
			SetContext(ctx).
			Get(location)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("ghcn: failed to fetch station inventory: %w", err)
		}
		if resp.StatusCode() != 200 {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
		}
		body = string(resp.Body())
	} else {
		content, err := os.ReadFile(location)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("ghcn: failed to read station inventory: %w", err)
		}
		body = string(content)
	}

	return parseStations(body)
}

// parseStations splits the inventory body into lines and parses each one
func parseStations(body string) (dataframe.DataFrame, error) {
	var (
		ids    []string
		lats   []float64
		lons   []float64
		elevs  []float64
		states []string
		names  []string
		gsns   []string
		hcns   []string
		wmos   []string
	)

	lineNo := 0
	for _, line := range strings.Split(body, "\n") {
		lineNo++
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, err := parseStationLine(line)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ids = append(ids, record.id)
		lats = append(lats, record.lat)
		lons = append(lons, record.lon)
		elevs = append(elevs, record.elev)
		states = append(states, record.state)
		names = append(names, record.name)
		gsns = append(gsns, record.gsn)
		hcns = append(hcns, record.hcn)
		wmos = append(wmos, record.wmo)
	}

	if len(ids) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: no station lines found", ErrStationLine)
	}

	df := dataframe.New(
		series.New(ids, series.String, stationFields[0]),
		series.New(lats, series.Float, stationFields[1]),
		series.New(lons, series.Float, stationFields[2]),
		series.New(elevs, series.Float, stationFields[3]),
		series.New(states, series.String, stationFields[4]),
		series.New(names, series.String, stationFields[5]),
		series.New(gsns, series.String, stationFields[6]),
		series.New(hcns, series.String, stationFields[7]),
		series.New(wmos, series.String, stationFields[8]),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ghcn: building station table: %w", df.Error())
	}
	return df, nil
}

// stationRecord is one parsed inventory line
type stationRecord struct {
	id    string
	lat   float64
	lon   float64
	elev  float64
	state string
	name  string
	gsn   string
	hcn   string
	wmo   string
}

// parseStationLine slices one line per the fixed column widths. Trailing
// flag columns may be absent; everything through the name column must be.
func parseStationLine(line string) (stationRecord, error) {
	if len(line) < stationLineMin {
		return stationRecord{}, fmt.Errorf("%w: %d characters, want at least %d", ErrStationLine, len(line), stationLineMin)
	}

	total := 0
	for _, w := range stationWidths {
		total += w
	}
	if len(line) < total {
		line += strings.Repeat(" ", total-len(line))
	}

	fields := make([]string, len(stationWidths))
	offset := 0
	for i, w := range stationWidths {
		fields[i] = strings.TrimSpace(line[offset : offset+w])
		offset += w
	}

	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return stationRecord{}, fmt.Errorf("%w: latitude %q: %v", ErrStationLine, fields[1], err)
	}
	lon, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return stationRecord{}, fmt.Errorf("%w: longitude %q: %v", ErrStationLine, fields[2], err)
	}
	elev, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return stationRecord{}, fmt.Errorf("%w: elevation %q: %v", ErrStationLine, fields[3], err)
	}

	return stationRecord{
		id:    fields[0],
		lat:   lat,
		lon:   lon,
		elev:  elev,
		state: fields[4],
		name:  fields[5],
		gsn:   fields[6],
		hcn:   fields[7],
		wmo:   fields[8],
	}, nil
}
