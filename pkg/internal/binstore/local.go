package binstore

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"

	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
	nlog "github.com/ridgeline/mediavault/pkg/log"
)

// LocalStore writes originals and thumbnails to local disk. Object names are
// ULIDs, so writes never collide and sort by creation time.
type LocalStore struct {
	root         string
	publicPrefix string
	thumbWidth   int

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewLocalStore creates a disk-backed store rooted at root. publicPrefix is
// prepended to returned URLs (e.g. "/static").
func NewLocalStore(root, publicPrefix string, thumbWidth int) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "thumbs"), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}

	return &LocalStore{
		root:         root,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		thumbWidth:   thumbWidth,
		entropy:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (s *LocalStore) newName(format string) string {
	s.mu.Lock()
	id := ulid.MustNew(ulid.Now(), s.entropy)
	s.mu.Unlock()

	return strings.ToLower(id.String()) + "." + format
}

func (s *LocalStore) Put(ctx context.Context, data []byte, opts PutOptions) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height, err := imgproc.Probe(data, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("local store put: %w", err)
	}

	dir := s.root
	rel := s.newName(opts.Format)

	if opts.Folder != "" {
		dir = filepath.Join(s.root, opts.Folder)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create folder %s: %w", opts.Folder, err)
		}

		rel = path.Join(opts.Folder, rel)
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("write original: %w", err)
	}

	obj := &Object{
		URL:       s.publicPrefix + "/" + rel,
		SecureURL: s.publicPrefix + "/" + rel,
		Width:     width,
		Height:    height,
		Format:    opts.Format,
		Bytes:     int64(len(data)),
	}

	// GIF and WebP skip thumbnailing, the original serves as-is.
	if opts.Format == imgproc.FormatJPEG || opts.Format == imgproc.FormatPNG {
		thumb, err := imgproc.Thumbnail(data, s.thumbWidth)
		if err != nil {
			// a missing thumbnail is not worth failing the ingest
			nlog.Logger().Warn().Err(err).Str("path", rel).Msg("thumbnail generation failed")
		} else {
			thumbRel := path.Join("thumbs", strings.TrimSuffix(path.Base(rel), path.Ext(rel))+".jpg")
			if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(thumbRel)), thumb, 0o644); err != nil {
				nlog.Logger().Warn().Err(err).Str("path", thumbRel).Msg("thumbnail write failed")
			} else {
				obj.ThumbURL = s.publicPrefix + "/" + thumbRel
			}
		}
	}

	return obj, nil
}

func (s *LocalStore) Remove(ctx context.Context, loc Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, ok := strings.CutPrefix(loc.URL, s.publicPrefix+"/")
	if !ok {
		return fmt.Errorf("local store remove: %q is outside prefix %q", loc.URL, s.publicPrefix)
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove original: %w", err)
	}

	thumb := filepath.Join(s.root, "thumbs", strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))+".jpg")
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		nlog.Logger().Warn().Err(err).Str("path", thumb).Msg("thumbnail remove failed")
	}

	return nil
}
