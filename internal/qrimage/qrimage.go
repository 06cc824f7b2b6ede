// Package qrimage shrinks oversized payment QR images carried as data URLs.
//
// Members upload QR codes as base64 data URLs. Large photos of a QR code make
// requests slow enough to hit the large-payload timeout, so they are
// re-encoded as small grayscale PNGs before they reach storage.
package qrimage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder

	"golang.org/x/image/draw"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
)

// DefaultMaxLength is the data URL length above which a request counts as a
// large payload.
const DefaultMaxLength = 10000

// MinSide is the smallest edge, in pixels, an image is scaled down to.
const MinSide = 64

// MaxPixels caps the decoded size of an upload. Larger images are rejected
// before their pixels are allocated.
const MaxPixels = 4096 * 4096

// MaxSide is the longest edge of the first resize pass.
const MaxSide = 1024

const pngPrefix = "data:image/png;base64,"

// IsDataImage reports whether s looks like an embedded image.
func IsDataImage(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// Shrink returns dataURL unchanged when it is at most maxLen characters long.
// Otherwise it decodes the image, converts it to grayscale and halves its size
// until the re-encoded PNG data URL fits. It fails with a validation error on
// the "qrCode" field when the input is not a decodable image or cannot be made
// small enough.
func Shrink(dataURL string, maxLen int) (string, error) {
	if len(dataURL) <= maxLen {
		return dataURL, nil
	}

	img, err := decode(dataURL)
	if err != nil {
		return "", apperrors.Validation("qrCode", err.Error())
	}

	w, h := fitSide(img.Bounds().Dx(), img.Bounds().Dy(), MaxSide)
	for {
		out, err := encode(scale(img, w, h))
		if err != nil {
			return "", fmt.Errorf("failed to encode qr image: %w", err)
		}
		if len(out) <= maxLen {
			return out, nil
		}
		if w/2 < MinSide || h/2 < MinSide {
			return "", apperrors.Validation("qrCode",
				fmt.Sprintf("image is too large: %d characters after resizing, limit %d", len(out), maxLen))
		}
		w, h = w/2, h/2
	}
}

func decode(dataURL string) (image.Image, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !IsDataImage(header) || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("not a base64 image data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("image dimensions %dx%d exceed %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// fitSide scales w×h down, keeping the aspect ratio, so that neither edge
// exceeds limit.
func fitSide(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// scale draws src into a w×h grayscale image. Nearest-neighbour keeps QR
// modules sharp.
func scale(src image.Image, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return "", err
	}
	return pngPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
