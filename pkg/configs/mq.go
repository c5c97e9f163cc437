package configs

import (
	"github.com/spf13/viper"
)

// MQType identifies the event transport backend.
type MQType string

const (
	MQTypeChannel MQType = "channel" // in-process gochannel transport
	MQTypeNATS    MQType = "nats"    // NATS (optionally JetStream)
)

type (
	// MQConfig holds event transport settings. Events are advisory signals
	// (asset stored/deleted, scan completed); delivery failures never block
	// the pipeline.
	MQConfig struct {
		Enabled   bool   `mapstructure:"enabled"`
		Type      string `mapstructure:"type" rule:"oneof=channel nats"`
		NATSURL   string `mapstructure:"nats_url"`
		JetStream bool   `mapstructure:"jetstream"`
	}
)

// GetMQType returns the configured transport type.
func (m *MQConfig) GetMQType() MQType {
	if m.Type == string(MQTypeNATS) {
		return MQTypeNATS
	}

	return MQTypeChannel
}

func (m *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.enabled", true)
	v.SetDefault("mq.type", string(MQTypeChannel))
	v.SetDefault("mq.nats_url", "nats://localhost:4222")
	v.SetDefault("mq.jetstream", false)
}
