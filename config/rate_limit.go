package config

import "fmt"

// Rate limit configuration
type RateLimitConfig struct {
	APIRate   int // Requests refilled per minute on the /api group
	APIBurst  int // Bucket capacity on the /api group
	AuthRate  int // Requests refilled per minute on /api/auth
	AuthBurst int // Bucket capacity on /api/auth
}

var DefaultRateLimitConfig = RateLimitConfig{
	APIRate:   10000,
	APIBurst:  1500,
	AuthRate:  30,
	AuthBurst: 10,
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		APIRate:   getint("RATE_LIMIT_API_RATE", DefaultRateLimitConfig.APIRate),
		APIBurst:  getint("RATE_LIMIT_API_BURST", DefaultRateLimitConfig.APIBurst),
		AuthRate:  getint("RATE_LIMIT_AUTH_RATE", DefaultRateLimitConfig.AuthRate),
		AuthBurst: getint("RATE_LIMIT_AUTH_BURST", DefaultRateLimitConfig.AuthBurst),
	}
}

func (r RateLimitConfig) validate() error {
	if r.APIRate <= 0 || r.APIBurst <= 0 || r.AuthRate <= 0 || r.AuthBurst <= 0 {
		return fmt.Errorf("config: rate limit values must be positive")
	}
	return nil
}
