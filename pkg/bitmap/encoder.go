package bitmap

import (
	"bytes"
	"image"

	"github.com/pkg/errors"
)

var ErrInvalidBitmap = errors.New("invalid bitmap")

// Encode packs src into the engraver file format. src should already be
// 512x512; pixels outside the canvas are dropped.
func Encode(src image.Image) []byte {
	return EncodeFormat(src, NEJE)
}

func EncodeFormat(src image.Image, f Format) []byte {
	d := Pack(src, f)

	out := make([]byte, 0, f.FileSize())
	out = append(out, f.Header()...)
	return append(out, d.pixels...)
}

// Pack thresholds src onto a fresh canvas of format f.
func Pack(src image.Image, f Format) *Mono {
	b := src.Bounds()
	d := NewMono(f)

	for y := 0; y < f.Height && b.Min.Y+y < b.Max.Y; y++ {
		for x := 0; x < f.Width && b.Min.X+x < b.Max.X; x++ {
			d.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}

	return d
}

// Decode parses a file produced by EncodeFormat with the same format.
func Decode(data []byte, f Format) (*Mono, error) {
	if len(data) != f.FileSize() {
		return nil, errors.Wrapf(ErrInvalidBitmap, "size %d, want %d", len(data), f.FileSize())
	}
	if !bytes.Equal(data[:HeaderSize], f.Header()) {
		return nil, errors.Wrap(ErrInvalidBitmap, "header mismatch")
	}

	m := NewMono(f)
	copy(m.pixels, data[HeaderSize:])
	return m, nil
}
