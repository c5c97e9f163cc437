// Package model defines the persisted asset metadata record.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetRecord is one row of asset metadata, independent of where the bytes
// live. RemoteID is set only for assets hosted on the external asset host;
// for local-disk and S3 assets URL carries the storage-relative path or
// public URL. URL is always non-empty.
type AssetRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	RemoteID  string             `bson:"remote_id,omitempty"  json:"remoteId,omitempty"`
	URL       string             `bson:"url"                  json:"url"`
	SecureURL string             `bson:"secure_url,omitempty" json:"secureUrl,omitempty"`
	ThumbURL  string             `bson:"thumb_url,omitempty"  json:"thumbUrl,omitempty"`

	Type    string   `bson:"type"              json:"type"`
	Section string   `bson:"section,omitempty" json:"section,omitempty"`
	Tags    []string `bson:"tags,omitempty"    json:"tags,omitempty"`

	Alt         string `bson:"alt,omitempty"         json:"alt,omitempty"`
	Title       string `bson:"title,omitempty"       json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	Width     int    `bson:"width,omitempty"  json:"width,omitempty"`
	Height    int    `bson:"height,omitempty" json:"height,omitempty"`
	Format    string `bson:"format,omitempty" json:"format,omitempty"`
	SizeBytes int64  `bson:"size_bytes,omitempty" json:"sizeBytes,omitempty"`
	Hash      string `bson:"hash,omitempty"   json:"hash,omitempty"`

	Order    int  `bson:"order"     json:"order"`
	IsActive bool `bson:"is_active" json:"isActive"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsRemote reports whether the binary lives on the external asset host.
func (a *AssetRecord) IsRemote() bool {
	return a.RemoteID != ""
}

// AssetPatch carries the mutable metadata fields for an update. Binary
// content, dimensions and locators are write-once at creation and are not
// patchable.
type AssetPatch struct {
	Type        *string   `json:"type,omitempty"`
	Section     *string   `json:"section,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Alt         *string   `json:"alt,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Order       *int      `json:"order,omitempty"`
	IsActive    *bool     `json:"isActive,omitempty"`
}
