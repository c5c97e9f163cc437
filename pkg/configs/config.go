// Package configs manages application configuration: server, logging, metadata
// store, binary storage, the external asset host and the media pipeline.
// Multiple formats are supported (YAML, JSON, TOML, dotenv) with optional hot
// reload.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion is reported to backends that accept a client app tag.
const AppVersion = "0.3.0"

type (
	// AppConfig is the global application configuration.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`
		Log            LogConfig            `mapstructure:"log"`
		Mongo          MongoConfig          `mapstructure:"mongo"`
		S3             S3Config             `mapstructure:"s3"`
		AssetHost      AssetHostConfig      `mapstructure:"assethost"`
		Media          MediaConfig          `mapstructure:"media"`
		Auth           AuthConfig           `mapstructure:"auth"`
		RateLimit      RateLimitConfig      `mapstructure:"ratelimit"`
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitbreaker"`
		Metrics        MetricsConfig        `mapstructure:"metrics"`
		MQ             MQConfig             `mapstructure:"mq"`
	}
)

var (
	// globalConfig is the global config instance.
	globalConfig AppConfig
	// appViper is the global viper instance.
	appViper *viper.Viper
)

// InitConfig loads the application configuration. path may be a config file or
// a directory containing config.{yaml,yml,json,toml,env}.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}
		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("MEDIAVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults plus env carry the service.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults sets defaults for every config section.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig  ServerConfig
		logConfig     LogConfig
		mongoConfig   MongoConfig
		s3Config      S3Config
		hostConfig    AssetHostConfig
		mediaConfig   MediaConfig
		authConfig    AuthConfig
		rlConfig      RateLimitConfig
		cbConfig      CircuitBreakerConfig
		metricsConfig MetricsConfig
		mqConfig      MQConfig
	)

	serverConfig.setDefaults(v)
	logConfig.setDefaults(v)
	mongoConfig.setDefaults(v)
	s3Config.setDefaults(v)
	hostConfig.setDefaults(v)
	mediaConfig.setDefaults(v)
	authConfig.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	mqConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig returns the global config instance.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
