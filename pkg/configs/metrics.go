package configs

import (
	"github.com/spf13/viper"
)

type (
	// MetricsConfig holds Prometheus metrics settings.
	MetricsConfig struct {
		Enabled        bool   `mapstructure:"enabled"`
		Path           string `mapstructure:"path"`
		RuntimeMetrics bool   `mapstructure:"runtime_metrics"`
	}
)

func (m *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime_metrics", true)
}
