// Package context extends context.Context with the storage manager so
// services can be constructed anywhere a request or job context flows.
package context

import (
	"context"

	"github.com/ridgeline/mediavault/pkg/internal/assethost"
	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/storage"
	mongoc "github.com/ridgeline/mediavault/pkg/internal/storage/mongodb"
	mqc "github.com/ridgeline/mediavault/pkg/internal/storage/mq"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
)

// WithStorageManager stores the Manager in the context.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager fetches the Manager from the context.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetAssetStore fetches the metadata store from the context.
func GetAssetStore(ctx context.Context) *mongoc.AssetStore {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetAssetStore()
	}

	return nil
}

// GetBinaryStore fetches the binary storage backend from the context.
func GetBinaryStore(ctx context.Context) binstore.Store {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetBinaryStore()
	}

	return nil
}

// GetAssetHost fetches the asset host client from the context.
func GetAssetHost(ctx context.Context) *assethost.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetAssetHost()
	}

	return nil
}

// GetMQClient fetches the event transport client from the context.
func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetMQClient()
	}

	return nil
}
