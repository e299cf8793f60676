package proto

import (
	"io"
)

// Transport is the byte pipe a device speaks over.
type Transport interface {
	io.ReadWriter
	Flush() error
}

// Control is the engraver vocabulary shared by the serial device, the
// virtual mock and the remote client.
type Control interface {
	Connect() error
	Close() error

	Command(op Opcode, arg ...byte) error

	MoveBeam(dir Direction) error
	ReverseAxis(axis Axis) error
	SetStepPause(ms int) error
	SetBurningTime(ms int) error
	ControlCarve(mode SeekMode) error

	UploadPicture(bs []byte) (int, error)
}
