package queue

import "github.com/ThreeDotsLabs/watermill/message"

// PublishAssetStored publishes an mv.asset.stored event.
func PublishAssetStored(pub message.Publisher, payload AssetStoredPayload) error {
	msg, err := NewWatermillMessage(TopicAssetStored, payload)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetStored, msg)
}

// PublishAssetDeleted publishes an mv.asset.deleted event.
func PublishAssetDeleted(pub message.Publisher, payload AssetDeletedPayload) error {
	msg, err := NewWatermillMessage(TopicAssetDeleted, payload)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAssetDeleted, msg)
}

// PublishScanCompleted publishes an mv.scan.completed event.
func PublishScanCompleted(pub message.Publisher, payload ScanCompletedPayload) error {
	msg, err := NewWatermillMessage(TopicScanCompleted, payload)
	if err != nil {
		return err
	}

	return pub.Publish(TopicScanCompleted, msg)
}

// ParseAssetStored decodes an mv.asset.stored message.
func ParseAssetStored(msg *message.Message) (Message[AssetStoredPayload], error) {
	return ParseWatermillMessage[AssetStoredPayload](msg)
}

// ParseAssetDeleted decodes an mv.asset.deleted message.
func ParseAssetDeleted(msg *message.Message) (Message[AssetDeletedPayload], error) {
	return ParseWatermillMessage[AssetDeletedPayload](msg)
}

// ParseScanCompleted decodes an mv.scan.completed message.
func ParseScanCompleted(msg *message.Message) (Message[ScanCompletedPayload], error) {
	return ParseWatermillMessage[ScanCompletedPayload](msg)
}
