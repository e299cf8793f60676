package main

import (
	"io"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nejetool/pkg/action"
	"nejetool/pkg/proto"
)

type recorder struct {
	connErr error
	calls   []string
}

func (r *recorder) Connect() error {
	r.calls = append(r.calls, "connect")
	return r.connErr
}

func (r *recorder) Close() error {
	r.calls = append(r.calls, "close")
	return nil
}

func (r *recorder) Command(op proto.Opcode, _ ...byte) error {
	r.calls = append(r.calls, op.String())
	return nil
}

func (r *recorder) MoveBeam(proto.Direction) error {
	r.calls = append(r.calls, "move")
	return nil
}

func (r *recorder) ReverseAxis(proto.Axis) error {
	r.calls = append(r.calls, "reverse")
	return nil
}

func (r *recorder) SetStepPause(int) error {
	r.calls = append(r.calls, "pause")
	return nil
}

func (r *recorder) SetBurningTime(int) error {
	r.calls = append(r.calls, "burn")
	return nil
}

func (r *recorder) ControlCarve(proto.SeekMode) error {
	r.calls = append(r.calls, "seek")
	return nil
}

func (r *recorder) UploadPicture(bs []byte) (int, error) {
	r.calls = append(r.calls, "upload")
	return len(bs), nil
}

func TestDriveConnectsFirst(t *testing.T) {
	inv, err := action.Parse(nil, "move", []string{"left"})
	require.NoError(t, err)

	dev := &recorder{}
	require.NoError(t, drive(zaptest.NewLogger(t), dev, inv, false))
	assert.Equal(t, []string{"connect", "move"}, dev.calls)
}

func TestDriveForce(t *testing.T) {
	mismatch := errors.Wrap(proto.ErrProtocolMismatch, "init reply 0000")
	timeout := errors.Wrap(proto.ErrReadTimeout, "no data within 1s")

	tests := []struct {
		name    string
		connErr error
		force   bool
		wantErr error
		invoked bool
	}{
		{name: "mismatch forced", connErr: mismatch, force: true, invoked: true},
		{name: "mismatch", connErr: mismatch, wantErr: proto.ErrProtocolMismatch},
		{name: "timeout forced", connErr: timeout, force: true, wantErr: proto.ErrReadTimeout},
		{name: "eof forced", connErr: io.ErrUnexpectedEOF, force: true, wantErr: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := action.Parse(nil, "start", nil)
			require.NoError(t, err)

			dev := &recorder{connErr: tt.connErr}
			err = drive(zaptest.NewLogger(t), dev, inv, tt.force)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.invoked, len(dev.calls) == 2, "calls %v", dev.calls)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, exitUsage, exitCode(errors.Wrap(proto.ErrInvalidArgument, "bad direction")))
	assert.Equal(t, exitFailure, exitCode(errors.Wrap(syscall.EINVAL, "write f1")))
	assert.Equal(t, exitFailure, exitCode(errors.Wrap(proto.ErrProtocolMismatch, "init reply")))
}

func TestExecuteChecksArgumentsBeforeOpen(t *testing.T) {
	saved := opts
	t.Cleanup(func() { opts = saved })
	opts.Serial = "no-such-engraver-port"

	err := execute(zaptest.NewLogger(t), "move", []string{"sideways"})
	assert.True(t, errors.Is(err, proto.ErrInvalidArgument), "got %v", err)

	err = execute(zaptest.NewLogger(t), "upload_pic", []string{"/nonexistent/picture.bmp"})
	assert.True(t, errors.Is(err, proto.ErrInvalidArgument), "got %v", err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestExecuteVirtual(t *testing.T) {
	saved := opts
	t.Cleanup(func() { opts = saved })
	opts.Serial = "virtual"

	assert.NoError(t, execute(zaptest.NewLogger(t), "set_burn_time", []string{"100"}))
}

func TestRunExitCodes(t *testing.T) {
	saved := opts
	t.Cleanup(func() { opts = saved })

	assert.Equal(t, exitUsage, run(nil))
	assert.Equal(t, exitUsage, run([]string{"--serial", "virtual", "move", "sideways"}))
	assert.Equal(t, 0, run([]string{"--serial", "virtual", "start"}))
}
