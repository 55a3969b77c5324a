package config

import "os"

// defaultVersion is used when no release version was injected at deploy time
const defaultVersion = "0.1.0"

// GetVersion returns the release version, preferring APP_VERSION set by CI
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return defaultVersion
}
