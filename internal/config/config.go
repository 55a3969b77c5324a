// Package config loads the environment configuration for droughtcast. The
// library packages never read the environment themselves; constructors take
// immutable option structs fed from this layer.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the drought analysis runner
type Config struct {
	// Data source URLs
	NCEIBaseURL string `env:"NCEI_BASE_URL,default=https://www.ncei.noaa.gov/access/services/data/v1"`
	StationsURL string `env:"GHCN_STATIONS_URL,default=https://www.ncei.noaa.gov/pub/data/ghcn/daily/ghcnd-stations.txt"`
	USDMFeedURL string `env:"USDM_FEED_URL,default=https://droughtmonitor.unl.edu/data/rss/usdm.xml"`

	// HTTP client configuration
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,default=30s"`

	// Output configuration
	OutputDir      string `env:"OUTPUT_DIR,default=./output"`
	StorageBackend string `env:"STORAGE_BACKEND,default=local"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// OpenAI configuration (optional, narrative generation only)
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4.1"`

	// Logging configuration
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
