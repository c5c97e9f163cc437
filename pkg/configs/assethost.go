package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAssetHostBaseURL       = "https://api.cloudinary.com/v1_1" // upload API base
	DefaultAssetHostFolder        = "roofing-site"                    // default upload folder
	DefaultAssetHostMinIntervalMS = 1500                              // min spacing between dispatches
	DefaultAssetHostMaxRetries    = 3                                 // retries on rate-limit responses
	DefaultAssetHostBaseDelayMS   = 1000                              // first backoff delay
	DefaultAssetHostTimeout       = 60                                // per-request timeout, seconds
)

type (
	// AssetHostConfig holds credentials and pacing for the external asset host.
	AssetHostConfig struct {
		BaseURL       string `mapstructure:"base_url"`
		CloudName     string `mapstructure:"cloud_name"`
		APIKey        string `mapstructure:"api_key"`
		APISecret     string `mapstructure:"api_secret"`
		Folder        string `mapstructure:"folder"`
		MinIntervalMS int    `mapstructure:"min_interval_ms" rule:"min=0"`
		MaxRetries    int    `mapstructure:"max_retries"     rule:"min=0,max=10"`
		BaseDelayMS   int    `mapstructure:"base_delay_ms"   rule:"min=1"`
		Timeout       int    `mapstructure:"timeout"         rule:"min=1,max=600"`
	}
)

// Configured reports whether credentials are present. Upload and destroy calls
// fail fast without them.
func (c *AssetHostConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// GetMinInterval returns the minimum inter-dispatch spacing.
func (c *AssetHostConfig) GetMinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

// GetBaseDelay returns the initial retry backoff delay.
func (c *AssetHostConfig) GetBaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// GetTimeout returns the per-request timeout.
func (c *AssetHostConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// UploadURL returns the image upload endpoint for the configured cloud.
func (c *AssetHostConfig) UploadURL() string {
	return fmt.Sprintf("%s/%s/image/upload", c.BaseURL, c.CloudName)
}

// DestroyURL returns the image destroy endpoint for the configured cloud.
func (c *AssetHostConfig) DestroyURL() string {
	return fmt.Sprintf("%s/%s/image/destroy", c.BaseURL, c.CloudName)
}

func (c *AssetHostConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("assethost.base_url", DefaultAssetHostBaseURL)
	v.SetDefault("assethost.cloud_name", "")
	v.SetDefault("assethost.api_key", "")
	v.SetDefault("assethost.api_secret", "")
	v.SetDefault("assethost.folder", DefaultAssetHostFolder)
	v.SetDefault("assethost.min_interval_ms", DefaultAssetHostMinIntervalMS)
	v.SetDefault("assethost.max_retries", DefaultAssetHostMaxRetries)
	v.SetDefault("assethost.base_delay_ms", DefaultAssetHostBaseDelayMS)
	v.SetDefault("assethost.timeout", DefaultAssetHostTimeout)
}
