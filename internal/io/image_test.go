package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_Downscale(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxSize    int
		wantW      int
		wantH      int
	}{
		{"landscape", 400, 300, 100, 100, 75},
		{"portrait", 300, 400, 100, 75, 100},
		{"already small", 50, 40, 100, 50, 40},
		{"disabled", 400, 300, 0, 400, 300},
	}

	svc := NewImageService(80)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Downscale(context.Background(), pngBytes(t, tt.w, tt.h), tt.maxSize)
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			require.Equal(t, "jpeg", format)
			require.Equal(t, tt.wantW, cfg.Width)
			require.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestImageService_DownscaleRejectsGarbage(t *testing.T) {
	_, err := NewImageService(0).Downscale(context.Background(), []byte("not an image"), 100)
	require.Error(t, err)
}
