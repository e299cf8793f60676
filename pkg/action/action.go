// Package action is the table of engraver operations reachable by name
// from the command line and the chat bot.
package action

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"nejetool/pkg/proto"
)

// Invocation is an action with its argument already parsed.
type Invocation func(dev proto.Control) error

// Action binds a name to its argument parser. Arg is empty for actions that
// take no argument.
type Action struct {
	Name  string
	Help  string
	Arg   string
	Parse func(env *Env, arg string) (Invocation, error)
}

// Env carries what argument parsers need beyond the argument itself.
type Env struct {
	Fs afero.Fs
	// Uploaded is told the byte count sent by upload_pic.
	Uploaded func(n int)
}

var table = []Action{
	opcode("start", "Start engraving operation", proto.OpStartCarve),
	opcode("pause", "Pause engraving", proto.OpPauseCarve),
	opcode("restart", "Restart the device", proto.OpRestart),
	opcode("preview", "Show picture bounds", proto.OpCarvingPreview),
	opcode("origin", "Move beam to picture origin", proto.OpMoveOrigin),
	opcode("middle", "Move beam to the middle of the picture", proto.OpPreviewCenter),
	{
		Name:  "raw",
		Help:  "Send raw command code (0x prefix for hex)",
		Arg:   "code",
		Parse: parseRaw,
	},
	{
		Name: "move",
		Help: "Move picture in specific direction",
		Arg:  "direction",
		Parse: func(_ *Env, arg string) (Invocation, error) {
			dir, err := proto.ParseDirection(arg)
			if err != nil {
				return nil, err
			}
			return func(dev proto.Control) error { return dev.MoveBeam(dir) }, nil
		},
	},
	{
		Name: "reverse",
		Help: "Mirror image along specified axis",
		Arg:  "axis",
		Parse: func(_ *Env, arg string) (Invocation, error) {
			axis, err := proto.ParseAxis(arg)
			if err != nil {
				return nil, err
			}
			return func(dev proto.Control) error { return dev.ReverseAxis(axis) }, nil
		},
	},
	{
		Name: "set_burn_time",
		Help: "Set burning time, interval in milliseconds",
		Arg:  "interval",
		Parse: func(_ *Env, arg string) (Invocation, error) {
			ms, err := parseInterval(arg)
			if err != nil {
				return nil, err
			}
			return func(dev proto.Control) error { return dev.SetBurningTime(ms) }, nil
		},
	},
	{
		Name: "set_pause",
		Help: "Set motor step pause, interval in milliseconds",
		Arg:  "interval",
		Parse: func(_ *Env, arg string) (Invocation, error) {
			ms, err := parseInterval(arg)
			if err != nil {
				return nil, err
			}
			return func(dev proto.Control) error { return dev.SetStepPause(ms) }, nil
		},
	},
	{
		Name: "seek",
		Help: "Seek 15 rows backward (back), forward or recarve",
		Arg:  "offset",
		Parse: func(_ *Env, arg string) (Invocation, error) {
			mode, err := proto.ParseSeekMode(arg)
			if err != nil {
				return nil, err
			}
			return func(dev proto.Control) error { return dev.ControlCarve(mode) }, nil
		},
	},
	{
		Name:  "upload_pic",
		Help:  "Upload a 512x512 monochrome bitmap file to the engraver",
		Arg:   "image",
		Parse: parseUpload,
	},
}

var byName = func() map[string]*Action {
	m := make(map[string]*Action, len(table))
	for i := range table {
		m[table[i].Name] = &table[i]
	}
	return m
}()

func Lookup(name string) (*Action, bool) {
	a, ok := byName[name]
	return a, ok
}

func All() []Action {
	return table
}

func Names() []string {
	names := make([]string, 0, len(table))
	for _, a := range table {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// Parse resolves name and arg to an invocation without touching the device.
func Parse(env *Env, name string, args []string) (Invocation, error) {
	a, ok := Lookup(name)
	if !ok {
		return nil, errors.Wrapf(proto.ErrInvalidArgument, "unknown command %q", name)
	}

	want := 0
	if a.Arg != "" {
		want = 1
	}
	if len(args) != want {
		return nil, errors.Wrapf(proto.ErrInvalidArgument, "%s expects %d argument(s), got %d", name, want, len(args))
	}

	var arg string
	if want == 1 {
		arg = strings.TrimSpace(args[0])
	}
	return a.Parse(env, arg)
}

func opcode(name, help string, op proto.Opcode) Action {
	return Action{
		Name: name,
		Help: help,
		Parse: func(*Env, string) (Invocation, error) {
			return func(dev proto.Control) error { return dev.Command(op) }, nil
		},
	}
}

func parseRaw(_ *Env, arg string) (Invocation, error) {
	code, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return nil, errors.Wrapf(proto.ErrInvalidArgument, "command code %q: %s", arg, err)
	}
	op := proto.Opcode(code)
	return func(dev proto.Control) error { return dev.Command(op) }, nil
}

func parseInterval(arg string) (int, error) {
	ms, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Wrapf(proto.ErrInvalidArgument, "interval %q is not an integer", arg)
	}
	if ms < 0 {
		return 0, errors.Wrapf(proto.ErrInvalidArgument, "interval %d is negative", ms)
	}
	return ms, nil
}

// parseUpload reads the file up front, so a missing file fails before the
// device is erased.
func parseUpload(env *Env, arg string) (Invocation, error) {
	fs := afero.NewOsFs()
	if env != nil && env.Fs != nil {
		fs = env.Fs
	}

	bs, err := afero.ReadFile(fs, arg)
	if err != nil {
		// a bad path is a usage error, like any other bad argument
		return nil, errors.Wrapf(proto.ErrInvalidArgument, "read picture %s: %v", arg, err)
	}

	return func(dev proto.Control) error {
		n, err := dev.UploadPicture(bs)
		if err != nil {
			return err
		}
		if env != nil && env.Uploaded != nil {
			env.Uploaded(n)
		}
		return nil
	}, nil
}
