// Package config binds command line flags with environment fallbacks.
package config

import (
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"
)

const (
	DefaultSerial = "ttyUSB0"
	DefaultBaud   = 57600
	DefaultSettle = 3 * time.Second
	DefaultListen = ":9123"
)

// Device holds how to reach the engraver.
type Device struct {
	Serial      string
	Baud        int
	ReadTimeout time.Duration
	Settle      time.Duration
	Force       bool
	Debug       bool
}

// Bind registers the device flags on fs. Defaults come from NEJE_* env vars.
func (d *Device) Bind(fs *flag.FlagSet) {
	fs.StringVarP(&d.Serial, "serial", "p", Env("NEJE_SERIAL", DefaultSerial),
		`serial port name, "host:port" of a nejed proxy, or "virtual"`)
	fs.IntVarP(&d.Baud, "baud", "b", EnvInt("NEJE_BAUD", DefaultBaud), "serial baud rate")
	fs.DurationVar(&d.ReadTimeout, "read-timeout", EnvDuration("NEJE_READ_TIMEOUT", 0),
		"serial read timeout, 0 blocks forever")
	fs.DurationVar(&d.Settle, "settle", DefaultSettle, "pause between erasing and uploading a picture")
	fs.BoolVar(&d.Force, "force", false, "continue when the device does not answer the handshake")
	fs.BoolVar(&d.Debug, "debug", EnvBool("NEJE_DEBUG", false), "debug logging")
}

func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func EnvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func EnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
