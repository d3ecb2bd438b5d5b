// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"stock_analyzer/internal/platform/externalapi/twelvedata"
	infrahttp "stock_analyzer/internal/platform/http"
	"stock_analyzer/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured TwelveDataMarket with HTTP client.
func NewMarket(cfg twelvedata.Config) *twelvedata.TwelveDataMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return twelvedata.NewTwelveDataMarket(cfg, httpClient)
}

// NewMarketRateLimiter returns a per-minute limiter matching the API plan.
func NewMarketRateLimiter(cfg twelvedata.Config) *ratelimiter.RateLimiter {
	return ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
}
