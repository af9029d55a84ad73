// Package imaging fetches signature images and works out their format and
// placement size.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Format is an image encoding recognised by its leading bytes.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	gif87     = []byte("GIF87a")
	gif89     = []byte("GIF89a")
)

// DetectFormat inspects magic numbers. Unknown data is treated as PNG.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	case bytes.HasPrefix(data, gif87), bytes.HasPrefix(data, gif89):
		return GIF
	default:
		return PNG
	}
}

// Extension returns the file extension with a leading dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpeg"
	case GIF:
		return ".gif"
	default:
		return ".png"
	}
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Probe reads the intrinsic pixel size without decoding the whole image.
func Probe(data []byte) (Size, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, false
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, true
}
