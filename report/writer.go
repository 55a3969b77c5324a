package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"droughtcast/internal/logger"
	"droughtcast/internal/storage"
)

// Store writes the report page and its chart images through the storage
// client, grouped under the dated folder for the analysis timestamp.
// Returns the path of the stored page.
func Store(ctx context.Context, client storage.Client, analysis *Analysis, page string, chartDir string) (string, error) {
	timestamp := analysis.GeneratedAt

	if err := client.StoreFile(ctx, []byte(page), "index.html", timestamp); err != nil {
		return "", fmt.Errorf("report: storing page: %w", err)
	}

	for _, name := range analysis.ChartFiles {
		data, err := os.ReadFile(filepath.Join(chartDir, name))
		if err != nil {
			return "", fmt.Errorf("report: reading chart %s: %w", name, err)
		}
		if err := client.StoreFile(ctx, data, name, timestamp); err != nil {
			return "", fmt.Errorf("report: storing chart %s: %w", name, err)
		}
	}

	path := storage.ReportFolderPath(timestamp) + "/index.html"
	logger.Info("stored drought report", map[string]interface{}{
		"path":   path,
		"charts": len(analysis.ChartFiles),
	})
	return path, nil
}
