package storage

import (
	"testing"
	"time"
)

func TestReportFolderPath(t *testing.T) {
	timestamp := time.Date(2025, time.August, 28, 9, 5, 3, 0, time.UTC)
	want := "2025/08/28/DroughtReport-2025-08-28-09-05-03"
	if got := ReportFolderPath(timestamp); got != want {
		t.Errorf("ReportFolderPath() = %q, want %q", got, want)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"index.html", "text/html"},
		{"styles.css", "text/css"},
		{"narrative.md", "text/markdown"},
		{"prompt.txt", "text/plain"},
		{"analysis.json", "application/json"},
		{"observations.csv", "text/csv"},
		{"spei_12.png", "image/png"},
		{"archive.zip", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := ContentType(tt.filename); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
