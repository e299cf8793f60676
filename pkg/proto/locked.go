package proto

import (
	"sync"
)

// Locked serializes every call on c, so frames from concurrent callers
// never interleave on the wire.
func Locked(c Control) Control {
	return &locked{c: c}
}

type locked struct {
	mu sync.Mutex
	c  Control
}

func (l *locked) Connect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Connect()
}

func (l *locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Close()
}

func (l *locked) Command(op Opcode, arg ...byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Command(op, arg...)
}

func (l *locked) MoveBeam(dir Direction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.MoveBeam(dir)
}

func (l *locked) ReverseAxis(axis Axis) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.ReverseAxis(axis)
}

func (l *locked) SetStepPause(ms int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.SetStepPause(ms)
}

func (l *locked) SetBurningTime(ms int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.SetBurningTime(ms)
}

func (l *locked) ControlCarve(mode SeekMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.ControlCarve(mode)
}

func (l *locked) UploadPicture(bs []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.UploadPicture(bs)
}
