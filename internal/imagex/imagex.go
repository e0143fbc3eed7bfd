// Package imagex sniffs and shrinks photos before they are uploaded.
package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const JPEGQuality = 90

var ErrNotImage = errors.New("content is not an image")

// Kind describes sniffed content.
type Kind struct {
	MIME      string
	Extension string
}

func (k Kind) IsImage() bool {
	return strings.HasPrefix(k.MIME, "image/")
}

// Detect sniffs data by its content, never by file name.
func Detect(data []byte) Kind {
	m := mimetype.Detect(data)
	mime, _, _ := strings.Cut(m.String(), ";")
	return Kind{MIME: mime, Extension: m.Extension()}
}

// RequireImage returns the detected kind or ErrNotImage.
func RequireImage(data []byte) (Kind, error) {
	k := Detect(data)
	if !k.IsImage() {
		return k, fmt.Errorf("%w: detected %s", ErrNotImage, k.MIME)
	}
	return k, nil
}

// FitWithin scales (w, h) so the longer side is at most maxSide, keeping the
// aspect ratio. Sizes already within bounds are returned unchanged.
func FitWithin(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}

// Downscale re-encodes data as JPEG when its longer side exceeds maxSide.
// It reports whether the image was changed; unchanged input is returned as is.
func Downscale(data []byte, maxSide int) ([]byte, bool, error) {
	if maxSide <= 0 {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image header: %w", err)
	}
	w, h := FitWithin(cfg.Width, cfg.Height, maxSide)
	if w == cfg.Width && h == cfg.Height {
		return data, false, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	// JPEG has no alpha channel; flatten onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, false, fmt.Errorf("failed to encode image to JPEG: %w", err)
	}
	return buf.Bytes(), true, nil
}
