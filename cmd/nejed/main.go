package main

import (
	"context"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nejetool/internal/config"
	"nejetool/internal/logger"
	"nejetool/pkg/bot"
	"nejetool/pkg/convert"
	"nejetool/pkg/device/neje"
	"nejetool/pkg/device/remote"
	"nejetool/pkg/device/virtual"
	"nejetool/pkg/proto"
)

var opts config.Device
var listen = flag.String("listen", config.Env("NEJE_LISTEN", config.DefaultListen), "rpc listen addr")
var tgToken = flag.String("tg-token", os.Getenv("NEJE_TG_TOKEN"), "telegram bot token")

func main() {
	opts.Bind(flag.CommandLine)
	flag.Parse()

	fx.New(
		fx.Provide(
			func() (*zap.Logger, error) {
				return logger.New(opts.Debug)
			},
			func() *http.Server {
				return &http.Server{Addr: *listen}
			},
			openDevice,
		),
		fx.Invoke(
			remote.Proxy,
			startBot,
		),
	).Run()
}

func openDevice(log *zap.Logger, lifecycle fx.Lifecycle) (proto.Control, error) {
	var dev proto.Control
	if opts.Serial == "virtual" {
		dev = virtual.Mock(log)
	} else {
		c, err := neje.Open(proto.NewSerial(opts.Serial), log,
			neje.WithBaudRate(opts.Baud),
			neje.WithReadTimeout(opts.ReadTimeout),
			neje.WithSettleDelay(opts.Settle),
		)
		if err != nil {
			return nil, err
		}
		dev = c
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := dev.Connect()
			if err != nil && opts.Force && errors.Is(err, proto.ErrProtocolMismatch) {
				log.With(zap.Error(err)).Warn("handshake mismatch, continuing")
				return nil
			}
			return err
		},
		OnStop: func(ctx context.Context) error {
			return dev.Close()
		},
	})

	// shared by the rpc proxy and the bot
	return proto.Locked(dev), nil
}

func startBot(dev proto.Control, log *zap.Logger, lifecycle fx.Lifecycle) error {
	if *tgToken == "" {
		return nil
	}

	conv := convert.New(afero.NewOsFs(), convert.WithLogger(log))
	b, err := bot.NewBot(*tgToken, dev, conv, log)
	if err != nil {
		return err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			b.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return b.Stop(ctx)
		},
	})

	return nil
}
