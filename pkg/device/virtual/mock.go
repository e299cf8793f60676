package virtual

import (
	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"nejetool/pkg/proto"
)

// Mock logs every call instead of touching hardware.
func Mock(logger *zap.Logger) proto.Control {
	return &Mocker{logger}
}

type Mocker struct {
	l *zap.Logger
}

func (m *Mocker) Connect() error {
	m.l.Info("connect")
	return nil
}

func (m *Mocker) Close() error {
	m.l.Info("close")
	return nil
}

// Command refuses the same frames the real device refuses, so a dry run
// fails where the engraver would.
func (m *Mocker) Command(op proto.Opcode, arg ...byte) error {
	if err := (proto.Frame{Op: op, Arg: arg}).Validate(); err != nil {
		return err
	}
	m.l.With(zap.Stringer("op", op), zap.Binary("arg", arg)).Info("command")
	return nil
}

func (m *Mocker) MoveBeam(dir proto.Direction) error {
	m.l.With(zap.Uint8("direction", uint8(dir))).Info("move-beam")
	return nil
}

func (m *Mocker) ReverseAxis(axis proto.Axis) error {
	m.l.With(zap.Uint8("axis", uint8(axis))).Info("reverse-axis")
	return nil
}

func (m *Mocker) SetStepPause(ms int) error {
	if ms < 0 {
		return errors.Wrapf(proto.ErrInvalidArgument, "interval %dms is negative", ms)
	}
	m.l.With(zap.Int("ms", ms)).Info("set-step-pause")
	return nil
}

func (m *Mocker) SetBurningTime(ms int) error {
	if ms < 0 {
		return errors.Wrapf(proto.ErrInvalidArgument, "interval %dms is negative", ms)
	}
	m.l.With(zap.Int("ms", ms)).Info("set-burning-time")
	return nil
}

func (m *Mocker) ControlCarve(mode proto.SeekMode) error {
	m.l.With(zap.Uint8("mode", uint8(mode))).Info("control-carve")
	return nil
}

func (m *Mocker) UploadPicture(bs []byte) (int, error) {
	m.l.With(zap.String("size", bytesize.New(float64(len(bs))).String())).Info("upload-picture")
	return len(bs), nil
}
