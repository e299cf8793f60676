package proto

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBytes(t *testing.T) {
	assert.Equal(t, []byte{0xF1}, Frame{Op: OpStartCarve}.Bytes())
	assert.Equal(t, []byte{0xF5, 0x03}, Frame{Op: OpMoveBeam, Arg: []byte{byte(DirectionLeft)}}.Bytes())
}

func TestFrameValidate(t *testing.T) {
	assert.NoError(t, Frame{Op: OpInit}.Validate())
	assert.NoError(t, Frame{Op: OpMoveBeam, Arg: []byte{1}}.Validate())

	err := Frame{Op: OpMoveBeam, Arg: []byte{1, 2}}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestParseEnums(t *testing.T) {
	dir, err := ParseDirection("Right")
	require.NoError(t, err)
	assert.Equal(t, DirectionRight, dir)

	axis, err := ParseAxis("y")
	require.NoError(t, err)
	assert.Equal(t, AxisY, axis)

	mode, err := ParseSeekMode("recarve")
	require.NoError(t, err)
	assert.Equal(t, SeekRecarve, mode)
	assert.Equal(t, byte(0x77), byte(mode))
}

func TestParseUnknownKey(t *testing.T) {
	_, err := ParseDirection("sideways")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "down, left, right, up")

	_, err = ParseAxis("z")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "erase-picture", OpErasePicture.String())
	assert.Equal(t, "0x42", Opcode(0x42).String())
}
