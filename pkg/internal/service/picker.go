package service

import (
	"context"
	"time"

	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	"github.com/ridgeline/mediavault/pkg/metrics"
)

// CommitPicked registers assets selected through the in-browser picker. The
// bytes are already hosted, so this only creates metadata records. Items are
// processed in order with a configurable delay between them to stay friendly
// to any downstream consumers; each item succeeds or fails on its own and
// the result slice has one entry per input, in input order.
func (s *MediaService) CommitPicked(ctx context.Context, req types.PickerRequest) []types.PickerResult {
	results := make([]types.PickerResult, 0, len(req.Assets))
	delay := s.cfg.GetPickerDelay()

	for i, a := range req.Assets {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return s.cancelRemaining(results, req.Assets[i:])
			case <-time.After(delay):
			}
		}

		rec := &model.AssetRecord{
			RemoteID:  a.RemoteID,
			URL:       a.URL,
			SecureURL: a.SecureURL,
			Type:      req.Meta.Type,
			Section:   req.Meta.Section,
			Tags:      req.Meta.Tags,
			Alt:       req.Meta.Alt,
			Title:     req.Meta.Title,
			Width:     a.Width,
			Height:    a.Height,
			Format:    a.Format,
			SizeBytes: a.Bytes,
			IsActive:  true,
		}

		if _, err := s.store.Insert(ctx, rec); err != nil {
			code := classifyError(err)
			metrics.IngestedAssets.WithLabelValues("picker", code).Inc()

			results = append(results, types.PickerResult{
				RemoteID: a.RemoteID,
				OK:       false,
				Code:     code,
				Error:    err.Error(),
			})

			continue
		}

		metrics.IngestedAssets.WithLabelValues("picker", "ok").Inc()

		results = append(results, types.PickerResult{
			RemoteID: a.RemoteID,
			OK:       true,
			Code:     types.IngestOK,
			Record:   rec,
		})

		s.publishStored(rec, "picker")
	}

	return results
}

// cancelRemaining fills results for the items still pending when the request
// context was cancelled mid-batch.
func (s *MediaService) cancelRemaining(results []types.PickerResult, rest []types.PickedAsset) []types.PickerResult {
	for _, a := range rest {
		results = append(results, types.PickerResult{
			RemoteID: a.RemoteID,
			OK:       false,
			Code:     types.IngestStorage,
			Error:    "cancelled before processing",
		})
	}

	return results
}
