// Package imgproc sniffs, validates and resizes image buffers before they are
// handed to a binary storage backend. The transform is deterministic: the same
// input bytes and bounds always produce the same output dimensions.
package imgproc

import (
	"bytes"
	"fmt"
	"image"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// Canonical format names, matching what the external asset host reports.
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
)

// ValidationError reports a buffer rejected before any storage call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// mimeFormats is the ingestion allow-list keyed by sniffed MIME type.
var mimeFormats = map[string]string{
	"image/jpeg": FormatJPEG,
	"image/png":  FormatPNG,
	"image/gif":  FormatGIF,
	"image/webp": FormatWebP,
}

// DetectFormat sniffs the buffer's MIME type and maps it to a canonical
// format name. Buffers outside the allow-list yield a ValidationError.
func DetectFormat(data []byte) (string, error) {
	mime := http.DetectContentType(data)

	format, ok := mimeFormats[mime]
	if !ok {
		return "", &ValidationError{Reason: fmt.Sprintf("unsupported content type %q", mime)}
	}

	return format, nil
}

// CheckSize rejects buffers above the ceiling with a ValidationError.
func CheckSize(data []byte, maxBytes int64) error {
	if int64(len(data)) > maxBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("file size %d exceeds limit %d", len(data), maxBytes),
		}
	}

	return nil
}

// Probe returns the pixel dimensions of the buffer without a full decode.
func Probe(data []byte, format string) (width, height int, err error) {
	if format == FormatWebP {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return 0, 0, fmt.Errorf("probe webp: %w", err)
		}

		return cfg.Width, cfg.Height, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("probe image: %w", err)
	}

	return cfg.Width, cfg.Height, nil
}

// Normalize bounds the image to maxWidth x maxHeight, preserving aspect ratio
// and never upscaling. GIF and WebP buffers are passed through undecoded
// (re-encoding would drop animation frames or lose the format entirely); only
// their dimensions are probed.
func Normalize(data []byte, format string, maxWidth, maxHeight int) (out []byte, width, height int, err error) {
	if format == FormatGIF || format == FormatWebP {
		width, height, err = Probe(data, format)
		if err != nil {
			return nil, 0, 0, err
		}

		return data, width, height, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return data, width, height, nil
	}

	resized := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	encFormat := imaging.JPEG
	if format == FormatPNG {
		encFormat = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, encFormat); err != nil {
		return nil, 0, 0, fmt.Errorf("encode image: %w", err)
	}

	rb := resized.Bounds()

	return buf.Bytes(), rb.Dx(), rb.Dy(), nil
}

// Thumbnail produces a width-bounded JPEG thumbnail. Used by the local-disk
// backend only.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Resize(img, min(maxWidth, img.Bounds().Dx()), 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// Digest returns a short content hash used to spot duplicate uploads.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
