package queue

import "time"

// EventHeader is the common header carried by every event.
type EventHeader struct {
	// Topic redundantly records the message topic so dumped messages stay
	// traceable to their source.
	Topic string `json:"topic"`
	// Producer is the producing service or node.
	Producer string `json:"producer,omitempty"`
	// OccurredAt is the event time (UTC, RFC3339).
	OccurredAt time.Time `json:"occurred_at"`
	// Version allows payloads to evolve; consumers should ignore unknown
	// fields.
	Version string `json:"version,omitempty"`
}

// Message is the uniform envelope, Header plus Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// AssetRef identifies one asset's metadata record and storage locator.
type AssetRef struct {
	RecordID  string `json:"record_id"`
	RemoteID  string `json:"remote_id,omitempty"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url,omitempty"`
	Format    string `json:"format,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
	Hash      string `json:"hash,omitempty"`
}

// AssetStoredPayload announces a newly persisted asset.
type AssetStoredPayload struct {
	Asset AssetRef `json:"asset"`
	// Source is the ingestion path: upload, picker or scan.
	Source string `json:"source,omitempty"`
}

// AssetDeletedPayload announces a removed asset. BinaryDeleted is false when
// the binary delete failed and the bytes may be orphaned.
type AssetDeletedPayload struct {
	Asset         AssetRef `json:"asset"`
	BinaryDeleted bool     `json:"binary_deleted"`
}

// ScanCompletedPayload summarizes one reconciliation run.
type ScanCompletedPayload struct {
	Directories []string `json:"directories"`
	TotalSeen   int      `json:"total_seen"`
	Created     int      `json:"created"`
	Existing    int      `json:"existing"`
	Errors      int      `json:"errors"`
}
