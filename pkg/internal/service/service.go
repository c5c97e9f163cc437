// Package service implements the media pipeline: upload ingestion, the
// filesystem reconciliation job, the asset-picker bridge and asset CRUD over
// the metadata store.
package service

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ridgeline/mediavault/pkg/configs"
	ctxPkg "github.com/ridgeline/mediavault/pkg/context"
	"github.com/ridgeline/mediavault/pkg/internal/assethost"
	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/storage/mongodb"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	nlog "github.com/ridgeline/mediavault/pkg/log"
)

// ErrNotFound is returned for operations on unknown record ids.
var ErrNotFound = errors.New("asset record not found")

// MetadataStore is the persistence port the service needs. Implemented by
// mongodb.AssetStore; tests substitute an in-memory fake.
type MetadataStore interface {
	Insert(ctx context.Context, rec *model.AssetRecord) (string, error)
	FindByID(ctx context.Context, id string) (*model.AssetRecord, error)
	List(ctx context.Context, q types.ListQuery) ([]model.AssetRecord, int64, error)
	UpdateByID(ctx context.Context, id string, patch model.AssetPatch) (*model.AssetRecord, error)
	DeleteByID(ctx context.Context, id string) error
	DistinctLocators(ctx context.Context) (map[string]struct{}, error)
}

// MediaService runs the ingestion pipeline. bin is the configured default
// backend; remote always points at the external asset host and is used by
// the scanner's rehost path and for deleting remotely-hosted records.
type MediaService struct {
	store  MetadataStore
	bin    binstore.Store
	remote binstore.Store
	pub    message.Publisher
	cfg    configs.MediaConfig
}

// NewMediaService wires a service from explicit dependencies. remote and pub
// may be nil; the corresponding paths then fail per-item or skip publishing.
func NewMediaService(store MetadataStore, bin, remote binstore.Store, pub message.Publisher, cfg configs.MediaConfig) *MediaService {
	return &MediaService{
		store:  store,
		bin:    bin,
		remote: remote,
		pub:    pub,
		cfg:    cfg,
	}
}

// NewMediaServiceFromContext builds the service from the storage manager
// carried in ctx.
func NewMediaServiceFromContext(ctx context.Context) *MediaService {
	appCfg := configs.GetConfig()

	var (
		store  MetadataStore
		bin    binstore.Store
		remote binstore.Store
		pub    message.Publisher
	)

	if s := ctxPkg.GetAssetStore(ctx); s != nil {
		store = s
	}

	bin = ctxPkg.GetBinaryStore(ctx)

	if host := ctxPkg.GetAssetHost(ctx); host != nil && appCfg.AssetHost.Configured() {
		remote = binstore.NewRemoteStore(host, appCfg.AssetHost.Folder)
	}

	if mq := ctxPkg.GetMQClient(ctx); mq != nil {
		pub = mq.Publisher()
	}

	return NewMediaService(store, bin, remote, pub, appCfg.Media)
}

// classifyError maps pipeline errors onto the per-item result codes.
func classifyError(err error) string {
	var (
		verr *imgproc.ValidationError
		rle  *assethost.RateLimitError
	)

	if errors.As(err, &verr) {
		return types.IngestValidation
	}

	if errors.As(err, &rle) {
		return types.IngestRateLimited
	}

	return types.IngestStorage
}

// mapStoreErr converts store-level not-found errors to ErrNotFound.
func mapStoreErr(err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrNotFound
	}

	return err
}

// logPublishErr logs a failed event publish. Events are advisory; failures
// never propagate.
func logPublishErr(err error, topic string) {
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("event publish failed")
	}
}
