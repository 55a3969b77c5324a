package charts

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"droughtcast/timeseries"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47}

func readChartFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart file: %v", err)
	}
	return data
}

func TestNewGenerator(t *testing.T) {
	outputDir := "/test/output"
	generator := NewGenerator(outputDir)

	if generator == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if generator.outputDir != outputDir {
		t.Errorf("Expected outputDir %s, got %s", outputDir, generator.outputDir)
	}
}

func TestDroughtIndexChart(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	values := []float64{0.3, -0.5, -1.2, -2.1, -1.8, -0.9, 0.1, 0.8, 1.4, 0.6, -0.2, -1.1}
	fitted := timeseries.MonthlyStarting(2020, time.January, values)

	path, err := generator.DroughtIndex(fitted, "Boulder CO", 12)
	if err != nil {
		t.Fatalf("DroughtIndex() failed: %v", err)
	}

	data := readChartFile(t, path)
	if !bytes.HasPrefix(data, pngHeader) {
		t.Errorf("chart file is not a PNG")
	}
}

func TestDroughtIndexChartSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	// Warmup NaN values at the head must not break rendering
	values := []float64{math.NaN(), math.NaN(), math.NaN(), -0.4, 0.2, 1.1, -1.5, 0.3}
	fitted := timeseries.MonthlyStarting(2021, time.March, values)

	path, err := generator.DroughtIndex(fitted, "", 3)
	if err != nil {
		t.Fatalf("DroughtIndex() failed: %v", err)
	}
	if data := readChartFile(t, path); len(data) == 0 {
		t.Error("chart file is empty")
	}
}

func TestDroughtIndexChartTooFewPoints(t *testing.T) {
	generator := NewGenerator(t.TempDir())

	values := []float64{math.NaN(), 0.5, math.NaN()}
	fitted := timeseries.MonthlyStarting(2021, time.January, values)

	if _, err := generator.DroughtIndex(fitted, "", 1); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("DroughtIndex() error = %v, want %v", err, ErrTooFewPoints)
	}
}

func TestWaterBalanceChart(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	wb := timeseries.MonthlyStarting(2020, time.January,
		[]float64{45.2, 12.0, -8.5, -31.0, -60.2, -75.8, -40.1, -12.3, 5.0, 22.8, 38.4, 51.0})

	path, err := generator.WaterBalance(wb, "Lincoln NE")
	if err != nil {
		t.Fatalf("WaterBalance() failed: %v", err)
	}

	data := readChartFile(t, path)
	if !bytes.HasPrefix(data, pngHeader) {
		t.Errorf("chart file is not a PNG")
	}
}

func TestRollingStatisticChart(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	s := timeseries.MonthlyStarting(2020, time.January,
		[]float64{0.12, 0.15, 0.11, 0.18, 0.22, 0.19, 0.16, 0.14})

	for _, statistic := range []string{"Mean", "Standard Deviation", "Coefficient of Variation"} {
		path, err := generator.RollingStatistic(s, "site 7", statistic)
		if err != nil {
			t.Fatalf("RollingStatistic(%s) failed: %v", statistic, err)
		}
		if data := readChartFile(t, path); !bytes.HasPrefix(data, pngHeader) {
			t.Errorf("RollingStatistic(%s) chart file is not a PNG", statistic)
		}
	}
}

func TestChartFilenames(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	fitted := timeseries.MonthlyStarting(2020, time.January,
		[]float64{0.1, -0.3, 0.5, -0.7, 0.2, -0.1})

	tests := []struct {
		name     string
		site     string
		scale    int
		expected string
	}{
		{name: "no site", site: "", scale: 6, expected: "spei_6.png"},
		{name: "simple site", site: "lincoln", scale: 12, expected: "spei_12_lincoln.png"},
		{name: "site with spaces and case", site: "Boulder CO", scale: 3, expected: "spei_3_boulder_co.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := generator.DroughtIndex(fitted, tt.site, tt.scale)
			if err != nil {
				t.Fatalf("DroughtIndex() failed: %v", err)
			}
			if got := filepath.Base(path); got != tt.expected {
				t.Errorf("chart filename = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestFileSlug(t *testing.T) {
	tests := []struct {
		name     string
		site     string
		expected string
	}{
		{name: "empty", site: "", expected: ""},
		{name: "lowercase word", site: "lincoln", expected: "_lincoln"},
		{name: "mixed case with space", site: "Boulder CO", expected: "_boulder_co"},
		{name: "station id", site: "USW00094846", expected: "_usw00094846"},
		{name: "punctuation", site: "St. Paul, MN", expected: "_st__paul__mn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fileSlug(tt.site); got != tt.expected {
				t.Errorf("fileSlug(%q) = %q, want %q", tt.site, got, tt.expected)
			}
		})
	}
}
