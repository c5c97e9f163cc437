package mq

import (
	"context"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	wnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/ridgeline/mediavault/pkg/configs"
)

const natsDrainTimeout = 30 * time.Second

// init registers the NATS factory.
func init() {
	RegisterFactory(configs.MQTypeNATS, natsFactory)
}

// natsFactory creates a NATS-backed publisher and subscriber, with JetStream
// optionally enabled from config.
func natsFactory(_ context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	natsOptions := []nc.Option{
		nc.Name("mediavault"),
		nc.RetryOnFailedConnect(true),
		nc.DrainTimeout(natsDrainTimeout),
	}

	jsConfig := wnats.JetStreamConfig{
		Disabled:      !cfg.JetStream,
		AutoProvision: cfg.JetStream,
	}

	pub, err := wnats.NewPublisher(wnats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOptions,
		JetStream:   jsConfig,
		Marshaler:   &wnats.NATSMarshaler{},
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sub, err := wnats.NewSubscriber(wnats.SubscriberConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOptions,
		JetStream:   jsConfig,
		Unmarshaler: &wnats.NATSMarshaler{},
	}, logger)
	if err != nil {
		_ = pub.Close()

		return nil, nil, err
	}

	return pub, sub, nil
}
