package proto

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Opcode is the single byte identifying a device operation.
type Opcode byte

// Known commands supported by DK5-Pro class engravers.
const (
	OpStartCarve       Opcode = 0xF1
	OpPauseCarve       Opcode = 0xF2
	OpMoveOrigin       Opcode = 0xF3
	OpCarvingPreview   Opcode = 0xF4
	OpMoveBeam         Opcode = 0xF5
	OpInit             Opcode = 0xF6
	OpReverseAxis      Opcode = 0xF7
	OpRestart          Opcode = 0xF9
	OpSetStepPause     Opcode = 0xFA
	OpPreviewCenter    Opcode = 0xFB
	OpCarveRateControl Opcode = 0xFC
	OpErasePicture     Opcode = 0xFE
)

var opcodeNames = map[Opcode]string{
	OpStartCarve:       "start-carve",
	OpPauseCarve:       "pause-carve",
	OpMoveOrigin:       "move-origin",
	OpCarvingPreview:   "carving-preview",
	OpMoveBeam:         "move-beam",
	OpInit:             "init",
	OpReverseAxis:      "reverse-axis",
	OpRestart:          "restart",
	OpSetStepPause:     "set-step-pause",
	OpPreviewCenter:    "preview-center",
	OpCarveRateControl: "carve-rate-control",
	OpErasePicture:     "erase-picture",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", byte(o))
}

type Direction byte

const (
	DirectionUp    Direction = 0x01
	DirectionDown  Direction = 0x02
	DirectionLeft  Direction = 0x03
	DirectionRight Direction = 0x04
)

type Axis byte

const (
	AxisX Axis = 0x01
	AxisY Axis = 0x02
)

// SeekMode moves through the carving sequence, 15 rows at a time.
type SeekMode byte

const (
	SeekBack    SeekMode = 0x55
	SeekRecarve SeekMode = 0x77
	SeekForward SeekMode = 0xAA
)

var Directions = map[string]Direction{
	"up":    DirectionUp,
	"down":  DirectionDown,
	"left":  DirectionLeft,
	"right": DirectionRight,
}

var Axes = map[string]Axis{
	"x": AxisX,
	"y": AxisY,
}

var SeekModes = map[string]SeekMode{
	"back":    SeekBack,
	"forward": SeekForward,
	"recarve": SeekRecarve,
}

func ParseDirection(key string) (Direction, error) {
	return parseKey(Directions, key, "direction")
}

func ParseAxis(key string) (Axis, error) {
	return parseKey(Axes, key, "axis")
}

func ParseSeekMode(key string) (SeekMode, error) {
	return parseKey(SeekModes, key, "seek mode")
}

// KeysOf returns the sorted keys of a name table, for usage messages.
func KeysOf[T any](values map[string]T) []string {
	keys := lo.Keys(values)
	sort.Strings(keys)
	return keys
}

func parseKey[T any](values map[string]T, key, name string) (T, error) {
	if v, ok := values[strings.ToLower(key)]; ok {
		return v, nil
	}

	var zero T
	return zero, errors.Wrapf(ErrInvalidArgument, "%q is not a valid %s (want one of %s)",
		key, name, strings.Join(KeysOf(values), ", "))
}

// Frame is an opcode plus an optional one-byte argument sent as a unit.
type Frame struct {
	Op  Opcode
	Arg []byte
}

// Bytes returns the wire form. No length prefix, no checksum, no terminator.
func (f Frame) Bytes() []byte {
	return append([]byte{byte(f.Op)}, f.Arg...)
}

// Validate rejects frames the device cannot take: at most one argument byte.
func (f Frame) Validate() error {
	if len(f.Arg) > 1 {
		return errors.Wrapf(ErrInvalidArgument, "%s takes at most one argument byte, got %d", f.Op, len(f.Arg))
	}
	return nil
}
