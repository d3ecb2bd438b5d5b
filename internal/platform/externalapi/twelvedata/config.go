// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"time"
)

const defaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Exchange string        `yaml:"exchange"` // e.g. "NSE"; empty lets the API pick the primary listing
	Timeout  time.Duration `yaml:"timeout"`
	// RequestsPerMinute caps outgoing calls; the free plan allows 8.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// DefaultConfig returns the public endpoint with free-plan limits.
func DefaultConfig() Config {
	return Config{
		BaseURL:           defaultBaseURL,
		Timeout:           10 * time.Second,
		RequestsPerMinute: 8,
	}
}
