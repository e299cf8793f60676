package proto

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

type Options struct {
	DTR         bool
	RTS         bool
	BaudRate    int
	ReadTimeout time.Duration
}

func NewSerial(name string) *Serial {
	return &Serial{name: name, list: serial.GetPortsList}
}

// Serial is a Transport over a local serial port, matched by name.
type Serial struct {
	name    string
	list    func() ([]string, error)
	port    serial.Port
	timeout time.Duration
}

func (s *Serial) Name() string {
	return s.name
}

func (s *Serial) Ports() ([]string, error) {
	return s.list()
}

func (s *Serial) Open(opts *Options) error {
	ports, err := s.Ports()
	if err != nil {
		return errors.Wrap(err, "list serial ports")
	}

	var matched string
	for _, name := range ports {
		if strings.Contains(name, s.name) {
			matched = name
			break
		}
	}
	if matched == "" {
		return errors.Wrapf(ErrPortNotFound, "no port matches %q", s.name)
	}

	port, err := serial.Open(matched, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return errors.Wrapf(err, "open %s", matched)
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		_ = port.Close()
		return errors.Wrap(err, "set DTR")
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		_ = port.Close()
		return errors.Wrap(err, "set RTS")
	}

	if opts.ReadTimeout > 0 {
		if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
			_ = port.Close()
			return errors.Wrap(err, "set read timeout")
		}
		s.timeout = opts.ReadTimeout
	}

	s.port = port
	return nil
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}

func (s *Serial) Read(p []byte) (n int, err error) {
	n, err = s.port.Read(p)
	// a timed out read reports zero bytes and no error
	if n == 0 && err == nil && len(p) > 0 {
		return 0, errors.Wrapf(ErrReadTimeout, "no data within %s", s.timeout)
	}
	return n, err
}

func (s *Serial) Write(p []byte) (n int, err error) {
	return s.port.Write(p)
}

func (s *Serial) Flush() error {
	return s.port.Drain()
}
