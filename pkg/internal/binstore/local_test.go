package binstore_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ridgeline/mediavault/pkg/internal/binstore"
	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	return buf.Bytes()
}

func TestLocalStorePutAndRemove(t *testing.T) {
	root := t.TempDir()

	s, err := binstore.NewLocalStore(root, "/static", 64)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	data := testJPEG(t, 400, 300)

	obj, err := s.Put(context.Background(), data, binstore.PutOptions{
		Folder: "gallery",
		Format: imgproc.FormatJPEG,
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !strings.HasPrefix(obj.URL, "/static/gallery/") {
		t.Errorf("URL = %q, want /static/gallery/ prefix", obj.URL)
	}

	if obj.Width != 400 || obj.Height != 300 {
		t.Errorf("dimensions = %dx%d, want 400x300", obj.Width, obj.Height)
	}

	if obj.ThumbURL == "" {
		t.Error("expected a thumbnail URL for JPEG input")
	}

	rel := strings.TrimPrefix(obj.URL, "/static/")
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
		t.Errorf("original not on disk: %v", err)
	}

	if err := s.Remove(context.Background(), binstore.Locator{URL: obj.URL}); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); !os.IsNotExist(err) {
		t.Error("original still on disk after Remove")
	}

	// removing again must succeed
	if err := s.Remove(context.Background(), binstore.Locator{URL: obj.URL}); err != nil {
		t.Errorf("Remove of absent object: %v", err)
	}
}

func TestLocalStoreUniqueNames(t *testing.T) {
	s, err := binstore.NewLocalStore(t.TempDir(), "", 64)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	data := testJPEG(t, 10, 10)
	seen := map[string]bool{}

	for i := 0; i < 10; i++ {
		obj, err := s.Put(context.Background(), data, binstore.PutOptions{Format: imgproc.FormatJPEG})
		if err != nil {
			t.Fatalf("Put: %v", err)
		}

		if seen[obj.URL] {
			t.Fatalf("duplicate object URL %q", obj.URL)
		}

		seen[obj.URL] = true
	}
}
