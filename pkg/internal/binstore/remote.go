package binstore

import (
	"context"
	"fmt"

	"github.com/ridgeline/mediavault/pkg/internal/assethost"
)

// RemoteStore stores bytes on the external asset host. All pacing and retry
// behavior lives in the assethost client.
type RemoteStore struct {
	client *assethost.Client
	folder string
}

// NewRemoteStore wraps an asset host client. folder is the default upload
// folder; PutOptions.Folder overrides it per call.
func NewRemoteStore(client *assethost.Client, folder string) *RemoteStore {
	return &RemoteStore{client: client, folder: folder}
}

func (s *RemoteStore) Put(ctx context.Context, data []byte, opts PutOptions) (*Object, error) {
	folder := opts.Folder
	if folder == "" {
		folder = s.folder
	}

	res, err := s.client.Upload(ctx, data, assethost.UploadOptions{
		Folder: folder,
		Tags:   opts.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("remote store put: %w", err)
	}

	return &Object{
		RemoteID:  res.RemoteID,
		URL:       res.URL,
		SecureURL: res.SecureURL,
		Width:     res.Width,
		Height:    res.Height,
		Format:    res.Format,
		Bytes:     res.Bytes,
	}, nil
}

func (s *RemoteStore) Remove(ctx context.Context, loc Locator) error {
	if loc.RemoteID == "" {
		return fmt.Errorf("remote store remove: empty remote id")
	}

	if err := s.client.Destroy(ctx, loc.RemoteID); err != nil {
		return fmt.Errorf("remote store remove %s: %w", loc.RemoteID, err)
	}

	return nil
}
