package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultMongoURI            = "mongodb://localhost:27017" // connection URI
	DefaultMongoDatabase       = "mediavault"                // database name
	DefaultMongoCollection     = "assets"                    // asset metadata collection
	DefaultMongoConnectTimeout = 10                          // connect timeout, seconds
)

type (
	// MongoConfig holds metadata store settings.
	MongoConfig struct {
		URI            string `mapstructure:"uri"`
		Database       string `mapstructure:"database"`
		Collection     string `mapstructure:"collection"`
		ConnectTimeout int    `mapstructure:"connect_timeout" rule:"min=1,max=120"`
	}
)

// GetConnectTimeout returns the connect timeout as a time.Duration.
func (m *MongoConfig) GetConnectTimeout() time.Duration {
	return time.Duration(m.ConnectTimeout) * time.Second
}

func (m *MongoConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mongo.uri", DefaultMongoURI)
	v.SetDefault("mongo.database", DefaultMongoDatabase)
	v.SetDefault("mongo.collection", DefaultMongoCollection)
	v.SetDefault("mongo.connect_timeout", DefaultMongoConnectTimeout)
}
