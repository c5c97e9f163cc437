package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// S3Config holds MinIO / S3-compatible storage settings for the s3 binary
// storage backend.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

const (
	DefaultS3Endpoint        = "localhost:9000" // S3 endpoint
	DefaultS3AccessKeyID     = "minioadmin"     // access key id
	DefaultS3SecretAccessKey = "minioadmin"     // secret access key
	DefaultS3UseSSL          = false            // use SSL
	DefaultS3Bucket          = "mediavault"     // bucket name
	DefaultS3Region          = "us-east-1"      // region
)

// GetEndpointURL returns the full endpoint URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults sets the S3 config defaults.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket", DefaultS3Bucket)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.public_base_url", "")
}
