package storage

import (
	"fmt"
	"strings"
	"time"
)

// ReportFolderPath generates the folder path for one analysis run.
// Format: YYYY/MM/DD/DroughtReport-YYYY-MM-DD-HH-MM-SS
func ReportFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/DroughtReport-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// ContentType determines the MIME content type from the file extension
func ContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".html"):
		return "text/html"
	case strings.HasSuffix(filename, ".css"):
		return "text/css"
	case strings.HasSuffix(filename, ".md"):
		return "text/markdown"
	case strings.HasSuffix(filename, ".txt"):
		return "text/plain"
	case strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv"
	case strings.HasSuffix(filename, ".png"):
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
