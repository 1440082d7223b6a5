package config

import "time"

// RateLimitConfig controls the Redis token-bucket rate limiter.
type RateLimitConfig struct {
	Enabled bool
	// Capacity is the burst size of the bucket.
	Capacity int
	// RefillEvery is how often one token is returned to the bucket.
	RefillEvery time.Duration
	Prefix      string
}

// LoadRateLimitConfig reads environment variables to build a RateLimitConfig.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:     getenv("RATELIMIT_ENABLED", "true") == "true",
		Capacity:    atoi(getenv("RATELIMIT_CAPACITY", "60")),
		RefillEvery: parseDur(getenv("RATELIMIT_REFILL_EVERY", "1s")),
		Prefix:      getenv("RATELIMIT_PREFIX", "rl"),
	}
}
