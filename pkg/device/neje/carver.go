package neje

import (
	"bytes"
	"io"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"nejetool/pkg/proto"
)

const (
	BaudRate = 57600

	// MaxBurningTime and MaxStepPause bound the single argument byte.
	MaxBurningTime = 240
	MaxStepPause   = 255

	eraseRepeat  = 8
	settleDelay  = 3 * time.Second
	connectReply = "\x65\x6f"
)

// Open connects to the named serial port with the line settings the
// engraver expects: 57600 baud, 8N1, RTS and DTR asserted.
func Open(serial *proto.Serial, logger *zap.Logger, opts ...Option) (*Carver, error) {
	c := New(serial, logger, opts...)

	if err := serial.Open(&proto.Options{
		DTR:         true,
		RTS:         true,
		BaudRate:    c.baud,
		ReadTimeout: c.timeout,
	}); err != nil {
		return nil, err
	}

	c.logger.With(zap.String("port", serial.Name()), zap.Int("baud", c.baud)).Debug("opened")
	c.closer = serial.Close
	return c, nil
}

func New(t proto.Transport, logger *zap.Logger, opts ...Option) *Carver {
	c := &Carver{
		t:      t,
		logger: logger,
		settle: settleDelay,
		sleep:  time.Sleep,
		baud:   BaudRate,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ proto.Control = (*Carver)(nil)

// Carver drives a NEJE DK-series engraver. Commands are written and
// forgotten; only Connect reads from the device.
type Carver struct {
	t        proto.Transport
	logger   *zap.Logger
	settle   time.Duration
	sleep    func(time.Duration)
	progress func(total int) io.Writer
	closer   func() error
	baud     int
	timeout  time.Duration
}

func (c *Carver) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// Connect sends INIT and expects the two byte "eo" reply.
func (c *Carver) Connect() error {
	c.logger.Debug("connecting")

	if err := c.sendCMD(proto.OpInit); err != nil {
		return err
	}

	reply, err := c.readN(len(connectReply))
	if err != nil {
		return errors.Wrap(err, "read init reply")
	}

	if !bytes.Equal(reply, []byte(connectReply)) {
		return errors.Wrapf(proto.ErrProtocolMismatch, "init reply %x, want %x", reply, connectReply)
	}

	c.logger.Info("connected")
	return nil
}

func (c *Carver) Command(op proto.Opcode, arg ...byte) error {
	if err := (proto.Frame{Op: op, Arg: arg}).Validate(); err != nil {
		return err
	}
	return c.sendCMD(op, arg...)
}

func (c *Carver) MoveBeam(dir proto.Direction) error {
	return c.sendCMD(proto.OpMoveBeam, byte(dir))
}

func (c *Carver) ReverseAxis(axis proto.Axis) error {
	return c.sendCMD(proto.OpReverseAxis, byte(axis))
}

func (c *Carver) ControlCarve(mode proto.SeekMode) error {
	return c.sendCMD(proto.OpCarveRateControl, byte(mode))
}

func (c *Carver) SetStepPause(ms int) error {
	v, err := clamp(ms, MaxStepPause)
	if err != nil {
		return err
	}
	return c.sendCMD(proto.OpSetStepPause, v)
}

// SetBurningTime writes the clamped value as a bare byte; the firmware has
// no opcode for it.
func (c *Carver) SetBurningTime(ms int) error {
	v, err := clamp(ms, MaxBurningTime)
	if err != nil {
		return err
	}
	return c.sendBytes([]byte{v})
}

// UploadPicture erases the stored picture, waits for the device to settle
// and streams bs in a single write.
func (c *Carver) UploadPicture(bs []byte) (int, error) {
	c.logger.Info("erasing old picture")
	for i := 0; i < eraseRepeat; i++ {
		if err := c.sendCMD(proto.OpErasePicture); err != nil {
			return 0, err
		}
		if err := c.t.Flush(); err != nil {
			return 0, errors.Wrap(err, "flush")
		}
	}

	c.sleep(c.settle)

	c.logger.With(
		zap.String("size", bytesize.New(float64(len(bs))).String()),
	).Info("uploading picture")

	var w io.Writer = c.t
	if c.progress != nil {
		w = &mirror{dst: c.t, tee: c.progress(len(bs))}
	}

	n, err := w.Write(bs)
	if err != nil {
		return n, errors.Wrap(err, "write picture")
	}

	c.logger.With(zap.Int("sent", n)).Info("picture uploaded")
	return n, nil
}

func clamp(ms int, max int) (byte, error) {
	if ms < 0 {
		return 0, errors.Wrapf(proto.ErrInvalidArgument, "interval %dms is negative", ms)
	}
	return byte(lo.Ternary(ms > max, max, ms)), nil
}

// mirror copies whatever reached dst into tee, keeping a single write on
// dst.
type mirror struct {
	dst io.Writer
	tee io.Writer
}

func (m *mirror) Write(p []byte) (int, error) {
	n, err := m.dst.Write(p)
	if n > 0 {
		_, _ = m.tee.Write(p[:n])
	}
	return n, err
}
