package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LocalClient stores report artifacts in a local directory tree
type LocalClient struct {
	baseDir string
}

// NewLocalClient creates a local client rooted at baseDir
func NewLocalClient(baseDir string) (*LocalClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage
func (l *LocalClient) Close() error {
	return nil
}

// StoreFile writes a file into the report folder for the timestamp
func (l *LocalClient) StoreFile(ctx context.Context, data []byte, filename string, timestamp time.Time) error {
	path := filepath.Join(l.baseDir, ReportFolderPath(timestamp), filename)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// GetFile reads a file by its path relative to the base directory
func (l *LocalClient) GetFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// ListReports lists stored report pages, newest first
func (l *LocalClient) ListReports(ctx context.Context, limit int) ([]string, error) {
	var reportPaths []string

	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if info.Name() == "index.html" {
			relPath, _ := filepath.Rel(l.baseDir, path)
			reportPaths = append(reportPaths, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk reports directory: %w", err)
	}

	// Folder names embed the timestamp, so lexical order is time order
	sort.Sort(sort.Reverse(sort.StringSlice(reportPaths)))

	if limit > 0 && limit < len(reportPaths) {
		reportPaths = reportPaths[:limit]
	}
	return reportPaths, nil
}
