package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService shrinks images before they are uploaded.
//
// It never touches files in the image store; callers read the stored
// bytes, downscale the copy in memory and send that.
//
// Example usage:
//
//	svc := NewImageService(90)
//	data, _ := os.ReadFile(string(stored))
//	small, _ := svc.Downscale(ctx, data, 1024)
type ImageService struct {
	quality int
}

// NewImageService creates an ImageService encoding JPEG at the given
// quality (1-100; out of range values mean 90).
func NewImageService(quality int) *ImageService {
	if quality < 1 || quality > 100 {
		quality = 90
	}
	return &ImageService{quality: quality}
}

// Downscale fits an image within maxSize x maxSize and returns it as JPEG.
//
// The aspect ratio is preserved and images are never enlarged: a picture
// that already fits is only re-encoded. The Catmull-Rom kernel is used
// for scaling.
//
// Example:
//
//	// A 4000x3000 photo with maxSize 1024 becomes 1024x768
//	small, err := svc.Downscale(ctx, data, 1024)
func (s *ImageService) Downscale(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fit(bounds.Dx(), bounds.Dy(), maxSize)

	var out image.Image = img
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit returns the largest dimensions within maxSize that keep the ratio.
func fit(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		h := height * maxSize / width
		if h < 1 {
			h = 1
		}
		return maxSize, h
	}
	w := width * maxSize / height
	if w < 1 {
		w = 1
	}
	return w, maxSize
}
