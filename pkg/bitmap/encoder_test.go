package bitmap

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// header the firmware vendor tool ships with
var nejeHeader = []byte{
	0x42, 0x4D, 0x3E, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x3E, 0x00, 0x00, 0x00,
	0x28, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x01, 0x00,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00,
}

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestNEJEHeader(t *testing.T) {
	require.Len(t, nejeHeader, HeaderSize)
	assert.Equal(t, nejeHeader, NEJE.Header())
	assert.Equal(t, 32768, NEJE.BufferLen())
	assert.Equal(t, 32830, NEJE.FileSize())
}

func TestEncodeBlackAndWhite(t *testing.T) {
	black := Encode(uniform(512, 512, color.Black))
	require.Len(t, black, 32830)
	assert.Equal(t, nejeHeader, black[:HeaderSize])
	for i, b := range black[HeaderSize:] {
		if b != 0x00 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}

	white := Encode(uniform(512, 512, color.White))
	require.Len(t, white, 32830)
	assert.Equal(t, nejeHeader, white[:HeaderSize])
	for i, b := range white[HeaderSize:] {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x, want 0xff", i, b)
		}
	}
}

func TestBufferLength(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{512, 512, 32768},
		{8, 1, 1},
		{3, 3, 2},
		{10, 7, 9},
		{1, 1, 1},
	}

	for _, tt := range tests {
		f := Format{Width: tt.w, Height: tt.h}
		out := EncodeFormat(uniform(tt.w, tt.h, color.White), f)
		assert.Equal(t, tt.want, f.BufferLen(), "%dx%d", tt.w, tt.h)
		assert.Len(t, out, HeaderSize+tt.want, "%dx%d", tt.w, tt.h)
	}
}

func TestPixelBitPositions(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		idx  int
		mask byte
	}{
		{"origin", 0, 0, 0, 0x80},
		{"end of first byte", 7, 0, 0, 0x01},
		{"second row", 0, 1, 64, 0x80},
		{"last pixel", 511, 511, 32767, 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := uniform(512, 512, color.Black)
			img.Set(tt.x, tt.y, color.White)

			pixels := Encode(img)[HeaderSize:]
			for i, b := range pixels {
				want := byte(0)
				if i == tt.idx {
					want = tt.mask
				}
				if b != want {
					t.Fatalf("byte %d = %#x, want %#x", i, b, want)
				}
			}
		})
	}
}

func TestChannelThreshold(t *testing.T) {
	tests := []struct {
		c  color.Color
		on bool
	}{
		{color.RGBA{R: 128, A: 255}, true},
		{color.RGBA{G: 128, A: 255}, true},
		{color.RGBA{B: 200, A: 255}, true},
		{color.RGBA{R: 127, G: 127, B: 127, A: 255}, false},
		{color.Gray{Y: 90}, false},
	}

	for _, tt := range tests {
		m := NewMono(Format{Width: 8, Height: 1})
		m.Set(0, 0, tt.c)
		assert.Equal(t, tt.on, m.Pixels()[0] == 0x80, "%v", tt.c)
	}
}

func TestEncodeOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 18, 21))
	img.Set(10, 20, color.White)

	out := EncodeFormat(img, Format{Width: 8, Height: 1})
	assert.Equal(t, byte(0x80), out[HeaderSize])
}

func TestDecode(t *testing.T) {
	img := uniform(512, 512, color.Black)
	img.Set(3, 2, color.White)

	m, err := Decode(Encode(img), NEJE)
	require.NoError(t, err)
	assert.Equal(t, color.Gray{Y: 0xFF}, m.At(3, 2))
	assert.Equal(t, color.Gray{}, m.At(2, 3))
	assert.Equal(t, color.Gray{}, m.At(-1, 600))

	_, err = Decode(make([]byte, 100), NEJE)
	assert.True(t, errors.Is(err, ErrInvalidBitmap))

	bad := Encode(img)
	bad[0] = 'X'
	_, err = Decode(bad, NEJE)
	assert.True(t, errors.Is(err, ErrInvalidBitmap))
}
