package storage

import (
	"context"
	"fmt"
)

// Backend selects the storage implementation
type Backend string

const (
	BackendLocal Backend = "local"
	BackendGCS   Backend = "gcs"
)

// New creates a storage client for the configured backend. The local
// backend writes under outputDir; the GCS backend writes into bucket.
func New(ctx context.Context, backend Backend, outputDir, bucket string) (Client, error) {
	switch backend {
	case BackendLocal:
		if outputDir == "" {
			outputDir = "output"
		}
		client, err := NewLocalClient(outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return client, nil

	case BackendGCS:
		if bucket == "" {
			return nil, fmt.Errorf("gcs backend requires a bucket name")
		}
		client, err := NewGCSClient(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
