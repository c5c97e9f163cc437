// Package mq provides the event transport built on Watermill, with an
// in-process gochannel backend and a NATS backend selected through a factory.
package mq

import (
	"context"
	"fmt"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/ridgeline/mediavault/pkg/configs"
	nlog "github.com/ridgeline/mediavault/pkg/log"
)

// Factory creates a Publisher + Subscriber pair for one transport type.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory registers the factory for an MQType.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

func init() {
	RegisterFactory(configs.MQTypeChannel, channelFactory)
}

// GetRegisteredMQTypes lists the transports compiled into this binary.
func GetRegisteredMQTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	return types
}

// channelFactory builds the in-process transport. Publisher and subscriber
// share one gochannel, so in-process consumers see published events.
func channelFactory(_ context.Context, _ *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	ch := gochannel.NewGoChannel(gochannel.Config{}, logger)

	return ch, ch, nil
}

// Client wraps a watermill Publisher and Subscriber.
type Client struct {
	publisher  message.Publisher
	subscriber message.Subscriber
}

// New builds the client for the configured transport. Returns nil without
// error when events are disabled.
func New(ctx context.Context, cfg *configs.MQConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	factory, ok := factories[cfg.GetMQType()]
	if !ok {
		return nil, fmt.Errorf("unknown mq type %q", cfg.Type)
	}

	logger := watermill.NewStdLogger(false, false)

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create mq transport: %w", err)
	}

	nlog.Logger().Info().Str("type", string(cfg.GetMQType())).Msg("event transport ready")

	return &Client{publisher: pub, subscriber: sub}, nil
}

// Publisher exposes the underlying publisher. May be called on a nil client;
// callers must handle the nil publisher.
func (c *Client) Publisher() message.Publisher {
	if c == nil {
		return nil
	}

	return c.publisher
}

// Publish sends messages to a topic.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return fmt.Errorf("mq publisher not initialized")
	}

	for _, m := range msgs {
		if err := c.publisher.Publish(topic, m); err != nil {
			return err
		}
	}

	return nil
}

// Subscribe opens a message channel for a topic.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, fmt.Errorf("mq subscriber not initialized")
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// Close releases both ends of the transport.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	var err error

	if c.publisher != nil {
		if e := c.publisher.Close(); e != nil {
			err = e
		}
	}

	if c.subscriber != nil {
		if e := c.subscriber.Close(); e != nil {
			err = e
		}
	}

	return err
}
