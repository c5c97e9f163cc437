package configs

import (
	"github.com/spf13/viper"
)

type (
	// AuthConfig holds authentication settings. The service sits behind an
	// authenticating reverse proxy (oauth2-proxy style) and trusts the
	// identity headers it injects.
	AuthConfig struct {
		Enabled       bool     `mapstructure:"enabled"`
		SkipPaths     []string `mapstructure:"skip_paths"`
		AdminEmails   []string `mapstructure:"admin_emails"`
		DevAllowQuery bool     `mapstructure:"dev_allow_query"`
	}
)

func (a *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.skip_paths", []string{"/health", "/metrics"})
	v.SetDefault("auth.admin_emails", []string{})
	v.SetDefault("auth.dev_allow_query", false)
}
