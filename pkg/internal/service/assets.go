package service

import (
	"context"

	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	nlog "github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/queue"
)

// List returns a page of asset records.
func (s *MediaService) List(ctx context.Context, q types.ListQuery) (*types.ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	if q.Limit < 1 {
		q.Limit = 20
	}

	items, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &types.ListResult{
		Items: items,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// Get fetches one asset record by id.
func (s *MediaService) Get(ctx context.Context, id string) (*model.AssetRecord, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return rec, nil
}

// Update applies a metadata patch and returns the updated record.
func (s *MediaService) Update(ctx context.Context, id string, patch model.AssetPatch) (*model.AssetRecord, error) {
	rec, err := s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return rec, nil
}

// Delete removes an asset. The binary delete runs first and is best-effort:
// a failure there is logged and reported through the deleted event's
// binary_deleted flag, but the metadata record is removed regardless so the
// asset disappears from the site either way.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}

	binDeleted := s.removeBinary(ctx, rec)

	if err := s.store.DeleteByID(ctx, rec.ID.Hex()); err != nil {
		return mapStoreErr(err)
	}

	s.publishDeleted(rec, binDeleted)

	return nil
}

// removeBinary deletes the stored bytes behind rec via the store that owns
// them. Returns false when no capable store is wired or the delete failed.
func (s *MediaService) removeBinary(ctx context.Context, rec *model.AssetRecord) bool {
	var (
		st  binstore.Store
		loc = binstore.Locator{RemoteID: rec.RemoteID, URL: rec.URL}
	)

	if rec.IsRemote() {
		st = s.remote
	} else {
		st = s.bin
	}

	if st == nil {
		nlog.Logger().Warn().
			Str("id", rec.ID.Hex()).
			Msg("no binary store for record, bytes left behind")

		return false
	}

	if err := st.Remove(ctx, loc); err != nil {
		nlog.Logger().Warn().Err(err).
			Str("id", rec.ID.Hex()).
			Str("url", rec.URL).
			Msg("binary delete failed, record removed anyway")

		return false
	}

	return true
}

func (s *MediaService) publishDeleted(rec *model.AssetRecord, binDeleted bool) {
	if s.pub == nil {
		return
	}

	logPublishErr(queue.PublishAssetDeleted(s.pub, queue.AssetDeletedPayload{
		Asset: queue.AssetRef{
			RecordID:  rec.ID.Hex(),
			RemoteID:  rec.RemoteID,
			URL:       rec.URL,
			SecureURL: rec.SecureURL,
			Format:    rec.Format,
			Bytes:     rec.SizeBytes,
			Hash:      rec.Hash,
		},
		BinaryDeleted: binDeleted,
	}), queue.TopicAssetDeleted)
}
