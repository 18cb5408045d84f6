package config

import "time"

const (
	rateLimitRequestsEnvVar = "RATE_LIMIT_REQUESTS"
	rateLimitWindowEnvVar   = "RATE_LIMIT_WINDOW"
)

// SecurityConfig limits credential endpoints per client address.
type SecurityConfig interface {
	GetRateLimitRequests() int
	GetRateLimitWindow() time.Duration
	GetEnableRateLimiting() bool
}

type Security struct {
	source
}

var _ SecurityConfig = Security{}

func (s Security) GetRateLimitRequests() int {
	return s.integer(rateLimitRequestsEnvVar, 10)
}

func (s Security) GetRateLimitWindow() time.Duration {
	return s.duration(rateLimitWindowEnvVar, time.Minute)
}

// GetEnableRateLimiting is false when RATE_LIMIT_REQUESTS is zero or negative.
func (s Security) GetEnableRateLimiting() bool {
	return s.GetRateLimitRequests() > 0
}
