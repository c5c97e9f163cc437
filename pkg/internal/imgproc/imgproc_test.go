package imgproc_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
)

// jpegBytes encodes a flat test image of the given size as JPEG.
func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x7f
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	if f, err := imgproc.DetectFormat(jpegBytes(t, 4, 4)); err != nil || f != imgproc.FormatJPEG {
		t.Errorf("DetectFormat(jpeg) = %q, %v", f, err)
	}

	if f, err := imgproc.DetectFormat(pngBytes(t, 4, 4)); err != nil || f != imgproc.FormatPNG {
		t.Errorf("DetectFormat(png) = %q, %v", f, err)
	}

	_, err := imgproc.DetectFormat([]byte("not an image at all, just text"))
	if err == nil {
		t.Fatal("expected error for non-image bytes")
	}

	var verr *imgproc.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestCheckSize(t *testing.T) {
	data := make([]byte, 100)

	if err := imgproc.CheckSize(data, 100); err != nil {
		t.Errorf("expected data at the limit to pass, got %v", err)
	}

	err := imgproc.CheckSize(data, 99)
	if err == nil {
		t.Fatal("expected error above the limit")
	}

	var verr *imgproc.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestNormalizeBoundsLargeImage(t *testing.T) {
	data := jpegBytes(t, 2000, 1500)

	out, w, h, err := imgproc.Normalize(data, imgproc.FormatJPEG, 1920, 1920)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if w != 1920 || h != 1440 {
		t.Errorf("got %dx%d, want 1920x1440", w, h)
	}

	if len(out) == 0 {
		t.Error("empty output buffer")
	}
}

func TestNormalizeNeverUpscales(t *testing.T) {
	data := jpegBytes(t, 640, 480)

	out, w, h, err := imgproc.Normalize(data, imgproc.FormatJPEG, 1920, 1920)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if w != 640 || h != 480 {
		t.Errorf("got %dx%d, want original 640x480", w, h)
	}

	// already-bounded images pass through unmodified
	if !bytes.Equal(out, data) {
		t.Error("expected original bytes for already-bounded image")
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	data := jpegBytes(t, 2400, 1200)

	_, w1, h1, err := imgproc.Normalize(data, imgproc.FormatJPEG, 1000, 1000)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	_, w2, h2, err := imgproc.Normalize(data, imgproc.FormatJPEG, 1000, 1000)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if w1 != w2 || h1 != h2 {
		t.Errorf("dimensions differ across runs: %dx%d vs %dx%d", w1, h1, w2, h2)
	}

	if w1 != 1000 || h1 != 500 {
		t.Errorf("got %dx%d, want 1000x500", w1, h1)
	}
}

func TestThumbnail(t *testing.T) {
	data := pngBytes(t, 800, 600)

	thumb, err := imgproc.Thumbnail(data, 320)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	if cfg.Width != 320 {
		t.Errorf("thumbnail width = %d, want 320", cfg.Width)
	}
}

func TestDigestStable(t *testing.T) {
	a := imgproc.Digest([]byte("same bytes"))
	b := imgproc.Digest([]byte("same bytes"))
	c := imgproc.Digest([]byte("other bytes"))

	if a != b {
		t.Error("digest not stable for identical input")
	}

	if a == c {
		t.Error("digest collision for different input")
	}
}
