package queue

import (
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

const (
	PayloadVersionV1 string = "v1"

	// ProducerName tags every event with its producing service.
	ProducerName = "mediavault"
)

// NewEventHeader creates an event header for a topic.
func NewEventHeader(topic string) EventHeader {
	return EventHeader{
		Topic:      topic,
		Producer:   ProducerName,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}
}

// Encode marshals an envelope to JSON.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode unmarshals an envelope from JSON.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage builds a watermill message with id and metadata set.
func NewWatermillMessage[T any](topic string, payload T) (*message.Message, error) {
	header := NewEventHeader(topic)
	env := Message[T]{Header: header, Payload: payload}

	data, err := Encode(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	msg.Metadata.Set("producer", header.Producer)
	msg.Metadata.Set("occurred_at", header.OccurredAt.Format(time.RFC3339Nano))
	msg.Metadata.Set("version", header.Version)

	return msg, nil
}

// ParseWatermillMessage decodes the typed payload from a watermill message.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
