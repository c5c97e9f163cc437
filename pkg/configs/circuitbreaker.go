package configs

import (
	"github.com/spf13/viper"
)

type (
	// CircuitBreakerConfig holds HTTP-surface circuit breaker settings.
	CircuitBreakerConfig struct {
		Enabled           bool    `mapstructure:"enabled"`
		MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"`
		IntervalSeconds   int     `mapstructure:"interval_seconds"`
		TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
		MinRequests       uint32  `mapstructure:"min_requests"`
		FailureRate       float64 `mapstructure:"failure_rate" rule:"min=0,max=1"`
	}
)

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuitbreaker.enabled", false)
	v.SetDefault("circuitbreaker.max_requests_in_half", 5)
	v.SetDefault("circuitbreaker.interval_seconds", 60)
	v.SetDefault("circuitbreaker.timeout_seconds", 30)
	v.SetDefault("circuitbreaker.min_requests", 10)
	v.SetDefault("circuitbreaker.failure_rate", 0.5)
}
