package remote

import (
	"net"
	"net/rpc"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nejetool/pkg/proto"
)

type recorder struct {
	calls    []string
	frames   [][]byte
	connErr  error
	cmdErr   error
	uploaded []byte
}

func (r *recorder) Connect() error {
	r.calls = append(r.calls, "connect")
	return r.connErr
}

func (r *recorder) Close() error {
	return nil
}

func (r *recorder) Command(op proto.Opcode, arg ...byte) error {
	r.frames = append(r.frames, proto.Frame{Op: op, Arg: arg}.Bytes())
	return r.cmdErr
}

func (r *recorder) MoveBeam(dir proto.Direction) error {
	return r.Command(proto.OpMoveBeam, byte(dir))
}

func (r *recorder) ReverseAxis(axis proto.Axis) error {
	return r.Command(proto.OpReverseAxis, byte(axis))
}

func (r *recorder) SetStepPause(ms int) error {
	return r.Command(proto.OpSetStepPause, byte(ms))
}

func (r *recorder) SetBurningTime(ms int) error {
	if ms < 0 {
		return errors.Wrap(proto.ErrInvalidArgument, "negative")
	}
	r.calls = append(r.calls, "burn")
	return nil
}

func (r *recorder) ControlCarve(mode proto.SeekMode) error {
	return r.Command(proto.OpCarveRateControl, byte(mode))
}

func (r *recorder) UploadPicture(bs []byte) (int, error) {
	r.uploaded = bs
	return len(bs), nil
}

func dial(t *testing.T, dev proto.Control) proto.Control {
	rs := rpc.NewServer()
	require.NoError(t, rs.Register(NewService(dev, zaptest.NewLogger(t))))

	srvConn, cliConn := net.Pipe()
	go rs.ServeConn(srvConn)

	c := &Client{rpc: rpc.NewClient(cliConn)}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRemoteRoundTrip(t *testing.T) {
	rec := &recorder{}
	c := dial(t, rec)

	require.NoError(t, c.Connect())
	require.NoError(t, c.Command(proto.OpStartCarve))
	require.NoError(t, c.MoveBeam(proto.DirectionLeft))
	require.NoError(t, c.ControlCarve(proto.SeekRecarve))

	n, err := c.UploadPicture([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, []string{"connect"}, rec.calls)
	assert.Equal(t, [][]byte{{0xF1}, {0xF5, 0x03}, {0xFC, 0x77}}, rec.frames)
	assert.Equal(t, []byte{1, 2, 3, 4}, rec.uploaded)
}

func TestRemoteErrorsKeepSentinel(t *testing.T) {
	rec := &recorder{connErr: errors.Wrap(proto.ErrProtocolMismatch, "init reply 0000")}
	c := dial(t, rec)

	err := c.Connect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, proto.ErrProtocolMismatch))

	err = c.SetBurningTime(-1)
	assert.True(t, errors.Is(err, proto.ErrInvalidArgument))
}

func TestRemoteOSErrorIsNotSentinel(t *testing.T) {
	rec := &recorder{cmdErr: errors.Wrap(syscall.EINVAL, "write f1")}
	c := dial(t, rec)

	err := c.Command(proto.OpStartCarve)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write f1")
	assert.False(t, errors.Is(err, proto.ErrInvalidArgument))
	assert.False(t, errors.Is(err, proto.ErrReadTimeout))
}
