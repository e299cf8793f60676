package bitmap

import (
	"image"
	"image/color"
)

// Threshold is the per-channel level above which a pixel burns.
const Threshold = 127

func NewMono(f Format) *Mono {
	return &Mono{
		pixels: make([]byte, f.BufferLen()),
		bounds: image.Rect(0, 0, f.Width, f.Height),
		format: f,
	}
}

// Mono is a 1 bit per pixel raster, row-major and MSB first within each
// byte. It implements the draw.Image interface.
type Mono struct {
	pixels []byte
	bounds image.Rectangle
	format Format
}

func (m *Mono) Bounds() image.Rectangle {
	return m.bounds
}

func (m *Mono) ColorModel() color.Model {
	return color.ModelFunc(toMono)
}

func (m *Mono) Format() Format {
	return m.format
}

// Pixels returns the packed buffer. Its length never changes.
func (m *Mono) Pixels() []byte {
	return m.pixels
}

func (m *Mono) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.bounds)) {
		return color.Gray{}
	}
	idx, mask := m.bit(x, y)
	if m.pixels[idx]&mask != 0 {
		return color.Gray{Y: 0xFF}
	}
	return color.Gray{}
}

// Set turns the pixel on when any of R, G or B exceeds Threshold. Pixels
// that are already on stay on.
func (m *Mono) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(m.bounds)) {
		return
	}
	if isOn(c) {
		m.SetPixel(x, y)
	}
}

func (m *Mono) SetPixel(x, y int) {
	idx, mask := m.bit(x, y)
	m.pixels[idx] |= mask
}

func (m *Mono) bit(x, y int) (int, byte) {
	index := y*m.format.Width + x
	return index / 8, 128 >> (index % 8)
}

// isOn compares non-premultiplied 8 bit channels.
func isOn(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R > Threshold || n.G > Threshold || n.B > Threshold
}

func toMono(c color.Color) color.Color {
	if isOn(c) {
		return color.Gray{Y: 0xFF}
	}
	return color.Gray{}
}
