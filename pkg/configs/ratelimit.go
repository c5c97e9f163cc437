package configs

import (
	"github.com/spf13/viper"
)

type (
	// RateLimitConfig holds HTTP-surface rate limit settings. This is the
	// inbound request limiter; the asset host client paces its own outbound
	// calls independently.
	RateLimitConfig struct {
		Enabled bool    `mapstructure:"enabled"`
		RPS     float64 `mapstructure:"rps"   rule:"min=0"`
		Burst   int     `mapstructure:"burst" rule:"min=0"`
		Key     string  `mapstructure:"key"` // global | ip | header:<name>
	}
)

func (r *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("ratelimit.key", "ip")
}
