// Package storage aggregates the storage resources: the asset metadata store,
// the binary storage backend and the event transport.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // handle error
//	}
//
//	store := mgr.GetAssetStore()
//	bin := mgr.GetBinaryStore()
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/assethost"
	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	mongoc "github.com/ridgeline/mediavault/pkg/internal/storage/mongodb"
	mqc "github.com/ridgeline/mediavault/pkg/internal/storage/mq"
	nlog "github.com/ridgeline/mediavault/pkg/log"
)

// Manager aggregates all storage resources.
type Manager struct {
	Assets    *mongoc.AssetStore
	Bin       binstore.Store
	AssetHost *assethost.Client
	MQ        *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init initializes default storage from global config. Repeated calls return
// the already-initialized instance.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		if m.Assets, err = mongoc.New(ctx, cfg.Mongo); err != nil {
			return
		}

		// The asset host client exists regardless of backend choice: the
		// scanner and picker bridge may rehost local files even when the
		// default backend is disk.
		m.AssetHost = assethost.New(cfg.AssetHost)

		if m.Bin, err = newBinaryStore(ctx, cfg, m.AssetHost); err != nil {
			return
		}

		if m.MQ, err = mqc.New(ctx, &cfg.MQ); err != nil {
			return
		}

		mgr = m

		nlog.Logger().Info().Str("backend", cfg.Media.Backend).Msg("storage manager initialized")
	})

	return mgr, err
}

// newBinaryStore selects the binary storage backend at construction time.
func newBinaryStore(ctx context.Context, cfg *configs.AppConfig, host *assethost.Client) (binstore.Store, error) {
	switch cfg.Media.Backend {
	case configs.BackendRemote:
		return binstore.NewRemoteStore(host, cfg.AssetHost.Folder), nil
	case configs.BackendLocal:
		return binstore.NewLocalStore(cfg.Media.LocalRoot, cfg.Media.PublicPrefix, cfg.Media.ThumbWidth)
	case configs.BackendS3:
		return binstore.NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}

// GetAssetStore returns the metadata store.
func (m *Manager) GetAssetStore() *mongoc.AssetStore {
	return m.Assets
}

// GetBinaryStore returns the configured binary storage backend.
func (m *Manager) GetBinaryStore() binstore.Store {
	return m.Bin
}

// GetAssetHost returns the external asset host client.
func (m *Manager) GetAssetHost() *assethost.Client {
	return m.AssetHost
}

// GetMQClient returns the event transport client, or nil when disabled.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close releases every held resource.
func (m *Manager) Close(ctx context.Context) error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.AssetHost != nil {
		m.AssetHost.Close()
	}

	if m.Assets != nil {
		if e := m.Assets.Close(ctx); e != nil {
			err = e
		}
	}

	return err
}
