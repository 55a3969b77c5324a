// Package storage is the output sink for rendered charts and drought
// reports, with local-directory and Google Cloud Storage backends.
package storage

import (
	"context"
	"time"
)

// Client stores and retrieves report artifacts. Files belonging to one
// analysis run share the dated report folder derived from its timestamp.
type Client interface {
	// Close releases the client's resources
	Close() error

	// StoreFile stores a file inside the report folder for the timestamp
	StoreFile(ctx context.Context, data []byte, filename string, timestamp time.Time) error

	// GetFile retrieves a file by its full storage path
	GetFile(ctx context.Context, path string) ([]byte, error)

	// ListReports lists stored report pages, newest first, up to limit
	ListReports(ctx context.Context, limit int) ([]string, error)
}
