package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrNotImage is returned when texture bytes are not an image at all.
	ErrNotImage = errors.New("not an image")
	// ErrUnsupported is returned for recognized image formats without a decoder.
	ErrUnsupported = errors.New("unsupported image format")
)

// decoders is keyed by the extension filetype reports for the payload.
// TGA has no magic number and is chosen by file extension instead, which is
// also why nothing here goes through image.Decode.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpg":  jpeg.Decode,
	"gif":  gif.Decode,
	"bmp":  bmp.Decode,
	"tif":  tiff.Decode,
	"webp": webp.Decode,
}

// Load reads a texture file and returns an NRGBA image.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	return Decode(path, raw)
}

// Decode decodes encoded image bytes. name supplies the extension for
// formats without a signature and is used in error messages.
func Decode(name string, data []byte) (*image.NRGBA, error) {
	kind, _ := filetype.Match(data)

	decode, ok := decoders[kind.Extension]
	switch {
	case ok:
	case kind == filetype.Unknown && strings.EqualFold(filepath.Ext(name), ".tga"):
		decode = tga.Decode
	case kind == filetype.Unknown:
		return nil, fmt.Errorf("texture: decode %s: %w", name, ErrNotImage)
	case filetype.IsImage(data):
		return nil, fmt.Errorf("texture: decode %s: %w (%s)", name, ErrUnsupported, kind.MIME.Value)
	default:
		return nil, fmt.Errorf("texture: decode %s: %w (%s)", name, ErrNotImage, kind.MIME.Value)
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
