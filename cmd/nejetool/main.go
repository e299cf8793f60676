package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"nejetool/internal/config"
	"nejetool/internal/logger"
	"nejetool/pkg/action"
	"nejetool/pkg/device/neje"
	"nejetool/pkg/device/remote"
	"nejetool/pkg/device/virtual"
	"nejetool/pkg/proto"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var opts config.Device

const progName = "nejetool"

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := os.Stderr
		fmt.Fprintf(out, "NEJE laser engraver control utility\n\n")
		fmt.Fprintf(out, "Usage: %s [flags] <command> [arg]\n\nCommands:\n", progName)
		for _, a := range action.All() {
			name := a.Name
			if a.Arg != "" {
				name += " <" + a.Arg + ">"
			}
			fmt.Fprintf(out, "  %-28s %s\n", name, a.Help)
		}
		fmt.Fprintf(out, "  %-28s %s\n", "ports", "List serial ports")
		fmt.Fprintf(out, "\nArguments:\n")
		fmt.Fprintf(out, "  direction: %s\n", strings.Join(proto.KeysOf(proto.Directions), ", "))
		fmt.Fprintf(out, "  axis:      %s\n", strings.Join(proto.KeysOf(proto.Axes), ", "))
		fmt.Fprintf(out, "  offset:    %s\n", strings.Join(proto.KeysOf(proto.SeekModes), ", "))
		fmt.Fprintf(out, "\nFlags:\n%s", fs.FlagUsages())
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(args []string) int {
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = usage(fs)
	opts.Bind(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	log, err := logger.New(opts.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return exitFailure
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := execute(log, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		code := exitCode(err)
		if code == exitUsage {
			fs.Usage()
		}
		return code
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, proto.ErrInvalidArgument):
		return exitUsage
	default:
		return exitFailure
	}
}

func execute(log *zap.Logger, name string, args []string) error {
	if name == "ports" {
		return listPorts()
	}

	env := &action.Env{
		Fs: afero.NewOsFs(),
		Uploaded: func(n int) {
			log.With(zap.String("size", bytesize.New(float64(n)).String())).Info("sent")
		},
	}

	// arguments are checked before the device is touched
	inv, err := action.Parse(env, name, args)
	if err != nil {
		return err
	}

	dev, err := open(log)
	if err != nil {
		return err
	}
	defer func() {
		_ = dev.Close()
	}()

	return drive(log, dev, inv, opts.Force)
}

// drive performs the handshake and then runs inv. With force set, only a
// handshake mismatch is forgiven; transport errors always abort.
func drive(log *zap.Logger, dev proto.Control, inv action.Invocation, force bool) error {
	if err := dev.Connect(); err != nil {
		if !force || !errors.Is(err, proto.ErrProtocolMismatch) {
			return errors.Wrap(err, "connect (use --force to ignore a handshake mismatch)")
		}
		log.With(zap.Error(err)).Warn("handshake mismatch, continuing")
	}

	return inv(dev)
}

func open(log *zap.Logger) (proto.Control, error) {
	switch {
	case opts.Serial == "virtual":
		return virtual.Mock(log), nil
	case strings.Contains(opts.Serial, ":"):
		return remote.New(opts.Serial)
	}

	return neje.Open(proto.NewSerial(opts.Serial), log,
		neje.WithBaudRate(opts.Baud),
		neje.WithReadTimeout(opts.ReadTimeout),
		neje.WithSettleDelay(opts.Settle),
		// the bar fills once the single payload write returns
		neje.WithProgress(func(total int) io.Writer {
			return progressbar.DefaultBytes(int64(total), "Uploading")
		}),
	)
}

func listPorts() error {
	ports, err := proto.NewSerial("").Ports()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}
