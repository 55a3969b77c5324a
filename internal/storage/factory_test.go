package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewLocalBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	client, err := New(context.Background(), BackendLocal, dir, "")
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*LocalClient); !ok {
		t.Errorf("New() returned %T, want *LocalClient", client)
	}
}

func TestNewGCSBackendRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), BackendGCS, "", ""); err == nil {
		t.Error("New() expected error for gcs backend without bucket, got nil")
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(context.Background(), Backend("s3"), "", ""); err == nil {
		t.Error("New() expected error for unknown backend, got nil")
	}
}
