package service

import (
	"context"
	"fmt"

	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	"github.com/ridgeline/mediavault/pkg/metrics"
	"github.com/ridgeline/mediavault/pkg/queue"
)

// Ingest validates, normalizes and persists a batch of uploaded buffers.
// Files are processed sequentially; one file's failure never aborts the
// batch. The result slice always has len(files) entries in input order.
// sizeLimit is the per-file byte ceiling for this entry point.
func (s *MediaService) Ingest(ctx context.Context, files []types.IngestFile, meta types.IngestMeta, sizeLimit int64) []types.IngestResult {
	results := make([]types.IngestResult, 0, len(files))

	for _, f := range files {
		rec, err := s.ingestOne(ctx, f, meta, sizeLimit)
		if err != nil {
			code := classifyError(err)
			metrics.IngestedAssets.WithLabelValues("upload", code).Inc()

			results = append(results, types.IngestResult{
				Name:  f.Name,
				OK:    false,
				Code:  code,
				Error: err.Error(),
			})

			continue
		}

		metrics.IngestedAssets.WithLabelValues("upload", "ok").Inc()

		results = append(results, types.IngestResult{
			Name:   f.Name,
			OK:     true,
			Code:   types.IngestOK,
			Record: rec,
		})

		s.publishStored(rec, "upload")
	}

	return results
}

// ingestOne runs the full pipeline for a single buffer: sniff, bound-check,
// normalize, store bytes, insert metadata.
func (s *MediaService) ingestOne(ctx context.Context, f types.IngestFile, meta types.IngestMeta, sizeLimit int64) (*model.AssetRecord, error) {
	format, err := imgproc.DetectFormat(f.Data)
	if err != nil {
		return nil, err
	}

	if err := imgproc.CheckSize(f.Data, sizeLimit); err != nil {
		return nil, err
	}

	data, width, height, err := imgproc.Normalize(f.Data, format, s.cfg.MaxWidth, s.cfg.MaxHeight)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", f.Name, err)
	}

	obj, err := s.bin.Put(ctx, data, binstore.PutOptions{
		Folder: meta.Type,
		Tags:   meta.Tags,
		Format: format,
	})
	if err != nil {
		return nil, err
	}

	// remote backends report their own derived dimensions; trust them when
	// present
	if obj.Width == 0 {
		obj.Width, obj.Height = width, height
	}

	rec := &model.AssetRecord{
		RemoteID:  obj.RemoteID,
		URL:       obj.URL,
		SecureURL: obj.SecureURL,
		ThumbURL:  obj.ThumbURL,
		Type:      meta.Type,
		Section:   meta.Section,
		Tags:      meta.Tags,
		Alt:       meta.Alt,
		Title:     meta.Title,
		Width:     obj.Width,
		Height:    obj.Height,
		Format:    obj.Format,
		SizeBytes: obj.Bytes,
		Hash:      imgproc.Digest(data),
		IsActive:  true,
	}

	if _, err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert record for %s: %w", f.Name, err)
	}

	return rec, nil
}

// publishStored emits the advisory stored event.
func (s *MediaService) publishStored(rec *model.AssetRecord, source string) {
	if s.pub == nil {
		return
	}

	logPublishErr(queue.PublishAssetStored(s.pub, queue.AssetStoredPayload{
		Asset: queue.AssetRef{
			RecordID:  rec.ID.Hex(),
			RemoteID:  rec.RemoteID,
			URL:       rec.URL,
			SecureURL: rec.SecureURL,
			Format:    rec.Format,
			Bytes:     rec.SizeBytes,
			Hash:      rec.Hash,
		},
		Source: source,
	}), queue.TopicAssetStored)
}
