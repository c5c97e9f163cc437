package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
	"github.com/ridgeline/mediavault/pkg/internal/model"
	"github.com/ridgeline/mediavault/pkg/internal/types"
	nlog "github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/metrics"
	"github.com/ridgeline/mediavault/pkg/queue"
)

// scanExts are the filename extensions the scanner considers. Content is
// still sniffed before a record is created; the extension check only prunes
// the walk.
var scanExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ScanOptions tunes one reconciliation run.
type ScanOptions struct {
	// Directories to walk. Empty means the configured scan_dirs.
	Directories []string
	// Rehost uploads each newly discovered file to the external asset host
	// instead of recording its local URL.
	Rehost bool
}

// CheckPaths reports which of the given directories exist, without touching
// the store. Empty input means the configured scan_dirs.
func (s *MediaService) CheckPaths(dirs []string) map[string]bool {
	if len(dirs) == 0 {
		dirs = s.cfg.ScanDirs
	}

	out := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		info, err := os.Stat(d)
		out[d] = err == nil && info.IsDir()
	}

	return out
}

// Scan walks the scan directories and registers every image file that has no
// metadata record yet. Files already known by URL or remote id are reported
// as existing and left untouched, so repeated runs converge. Individual file
// failures are recorded in the outcome and do not abort the run; a missing
// directory does, since that is a deployment problem rather than a data one.
func (s *MediaService) Scan(ctx context.Context, opts ScanOptions) (*types.ScanOutcome, error) {
	dirs := opts.Directories
	if len(dirs) == 0 {
		dirs = s.cfg.ScanDirs
	}

	for _, d := range dirs {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("scan directory %s does not exist", d)
		}
	}

	known, err := s.store.DistinctLocators(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known locators: %w", err)
	}

	outcome := &types.ScanOutcome{Details: []types.ScanDetail{}}
	visited := map[string]bool{}

	for _, d := range dirs {
		if err := s.scanDir(ctx, d, d, 0, known, visited, opts.Rehost, outcome); err != nil {
			return nil, err
		}
	}

	s.publishScanCompleted(dirs, outcome)

	return outcome, nil
}

// scanDir walks one directory level. root is the scan root dir, used to
// derive canonical URLs and sections from the relative path.
func (s *MediaService) scanDir(ctx context.Context, root, dir string, depth int, known map[string]struct{}, visited map[string]bool, rehost bool, outcome *types.ScanOutcome) error {
	if depth > s.cfg.ScanMaxDepth {
		return nil
	}

	// Symlinked directories can cycle; track resolved paths and walk each
	// real directory once.
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("dir", dir).Msg("skipping unresolvable directory")
		return nil
	}

	if visited[real] {
		return nil
	}
	visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		// An unreadable subdirectory is recorded like a bad file and the
		// rest of the walk goes on; only the top-level existence check in
		// Scan aborts the run.
		s.scanError(outcome, dir, err)
		return nil
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, e.Name())

		if e.IsDir() {
			if err := s.scanDir(ctx, root, path, depth+1, known, visited, rehost, outcome); err != nil {
				return err
			}

			continue
		}

		if !scanExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}

		s.scanFile(ctx, root, path, known, rehost, outcome)
	}

	return nil
}

// scanFile reconciles a single file and appends its detail to the outcome.
func (s *MediaService) scanFile(ctx context.Context, root, path string, known map[string]struct{}, rehost bool, outcome *types.ScanOutcome) {
	outcome.TotalSeen++

	rel, err := filepath.Rel(root, path)
	if err != nil {
		s.scanError(outcome, path, err)
		return
	}

	canonical := s.cfg.PublicPrefix + "/" + filepath.ToSlash(rel)

	if _, ok := known[canonical]; ok {
		outcome.ExistingCount++
		metrics.ScanFiles.WithLabelValues(types.ScanExisting).Inc()
		outcome.Details = append(outcome.Details, types.ScanDetail{
			Path:   canonical,
			Status: types.ScanExisting,
		})

		return
	}

	rec, err := s.registerScanned(ctx, path, canonical, rehost)
	if err != nil {
		s.scanError(outcome, canonical, err)
		return
	}

	// Remember both locators so a rehosted copy of the same file later in
	// the walk still counts as existing.
	known[canonical] = struct{}{}
	if rec.RemoteID != "" {
		known[rec.RemoteID] = struct{}{}
	}

	outcome.CreatedCount++
	metrics.ScanFiles.WithLabelValues(types.ScanCreated).Inc()
	outcome.Details = append(outcome.Details, types.ScanDetail{
		Path:     canonical,
		Status:   types.ScanCreated,
		RecordID: rec.ID.Hex(),
	})
}

// registerScanned builds and inserts the record for one new on-disk file.
func (s *MediaService) registerScanned(ctx context.Context, path, canonical string, rehost bool) (*model.AssetRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format, err := imgproc.DetectFormat(data)
	if err != nil {
		return nil, err
	}

	width, height, err := imgproc.Probe(data, format)
	if err != nil {
		return nil, err
	}

	rec := &model.AssetRecord{
		URL:       canonical,
		Type:      "general",
		Section:   sectionFromCanonical(canonical, s.cfg.PublicPrefix),
		Width:     width,
		Height:    height,
		Format:    format,
		SizeBytes: int64(len(data)),
		Hash:      imgproc.Digest(data),
		IsActive:  true,
	}

	if rehost {
		if s.remote == nil {
			return nil, fmt.Errorf("rehost requested but asset host is not configured")
		}

		obj, err := s.remote.Put(ctx, data, binstore.PutOptions{
			Folder: rec.Section,
			Format: format,
		})
		if err != nil {
			return nil, err
		}

		rec.RemoteID = obj.RemoteID
		rec.URL = obj.URL
		rec.SecureURL = obj.SecureURL
	}

	if _, err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.publishStored(rec, "scan")

	return rec, nil
}

func (s *MediaService) scanError(outcome *types.ScanOutcome, path string, err error) {
	outcome.ErrorCount++
	metrics.ScanFiles.WithLabelValues(types.ScanError).Inc()
	outcome.Details = append(outcome.Details, types.ScanDetail{
		Path:    path,
		Status:  types.ScanError,
		Message: err.Error(),
	})
}

// sectionFromCanonical derives the section from the first path segment under
// the public prefix, e.g. /static/services/roof.jpg -> services.
func sectionFromCanonical(canonical, prefix string) string {
	rest := strings.TrimPrefix(canonical, prefix)
	rest = strings.TrimPrefix(rest, "/")

	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i]
	}

	return ""
}

func (s *MediaService) publishScanCompleted(dirs []string, outcome *types.ScanOutcome) {
	if s.pub == nil {
		return
	}

	logPublishErr(queue.PublishScanCompleted(s.pub, queue.ScanCompletedPayload{
		Directories: dirs,
		TotalSeen:   outcome.TotalSeen,
		Created:     outcome.CreatedCount,
		Existing:    outcome.ExistingCount,
		Errors:      outcome.ErrorCount,
	}), queue.TopicScanCompleted)
}
