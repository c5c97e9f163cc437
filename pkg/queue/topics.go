// Package queue defines the event envelope, topics and payloads published by
// the media pipeline. Events are advisory signals for downstream consumers
// (CDN cache purgers, search indexers); nothing in the pipeline blocks on
// them.
package queue

// Topic naming: mv.<domain>.<action>.
const (
	// TopicAssetStored fires after a new asset record is persisted, from any
	// ingestion path (upload, picker, scan).
	TopicAssetStored = "mv.asset.stored"
	// TopicAssetDeleted fires after an asset record is removed. Consumers
	// holding cached copies of the binary should invalidate them.
	TopicAssetDeleted = "mv.asset.deleted"
	// TopicScanCompleted fires when a filesystem reconciliation run finishes.
	TopicScanCompleted = "mv.scan.completed"
)
