// Package binstore abstracts where image bytes live. One interface, three
// backends selected at construction time: the external asset host, local
// disk, and S3-compatible object storage.
package binstore

import (
	"context"
)

// Object is the locator and derived metadata for stored bytes.
type Object struct {
	RemoteID  string // set only by the remote backend
	URL       string
	SecureURL string
	ThumbURL  string
	Width     int
	Height    int
	Format    string
	Bytes     int64
}

// Locator is the durable reference needed to delete stored bytes.
type Locator struct {
	RemoteID string
	URL      string
}

// PutOptions controls placement of stored bytes.
type PutOptions struct {
	Folder string
	Tags   []string
	Format string // canonical format name, from imgproc.DetectFormat
}

// Store is the binary storage backend. Put writes the buffer and returns its
// locator; Remove deletes the bytes behind a locator. Implementations must
// treat Remove of an already-absent object as success.
type Store interface {
	Put(ctx context.Context, data []byte, opts PutOptions) (*Object, error)
	Remove(ctx context.Context, loc Locator) error
}

// formatMIMEs maps canonical format names to MIME types.
var formatMIMEs = map[string]string{
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// MIMEForFormat returns the MIME type for a canonical format name.
func MIMEForFormat(format string) string {
	if m, ok := formatMIMEs[format]; ok {
		return m
	}

	return "application/octet-stream"
}
