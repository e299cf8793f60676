package bitmap

import (
	"bytes"
	"encoding/binary"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	paletteSize    = 8

	// HeaderSize is the length of the fixed file prefix before pixel data.
	HeaderSize = fileHeaderSize + infoHeaderSize + paletteSize
)

// Format describes the canvas geometry of a monochrome bitmap file.
type Format struct {
	Width  int
	Height int
}

// NEJE is the only geometry the engraver firmware accepts.
var NEJE = Format{Width: 512, Height: 512}

type fileHeader struct {
	Type      [2]byte
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32
}

type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPixelsPerM     int32
	YPixelsPerM     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// BufferLen is the packed pixel data length, ceil(W*H/8).
func (f Format) BufferLen() int {
	return (f.Width*f.Height + 7) / 8
}

func (f Format) FileSize() int {
	return HeaderSize + f.BufferLen()
}

// Header builds the 62 byte prefix: file header, info header and a
// two entry palette (0 black, 1 white).
//
// Rows are written top-down without padding, so only widths divisible by
// 32 produce a file other readers agree with. The device does not care.
func (f Format) Header() []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)

	_ = binary.Write(&buf, binary.LittleEndian, fileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(f.FileSize()),
		OffBits: HeaderSize,
	})
	_ = binary.Write(&buf, binary.LittleEndian, infoHeader{
		Size:     infoHeaderSize,
		Width:    int32(f.Width),
		Height:   int32(f.Height),
		Planes:   1,
		BitCount: 1,
	})
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00})

	return buf.Bytes()
}
