package neje

import (
	"io"
	"time"
)

type Option func(c *Carver)

// WithSettleDelay overrides the pause between erasing and streaming a
// picture.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Carver) {
		c.settle = d
	}
}

func WithSleep(fn func(time.Duration)) Option {
	return func(c *Carver) {
		c.sleep = fn
	}
}

// WithProgress mirrors the picture payload into the writer returned by fn,
// which receives the payload size. The payload leaves in a single write, so
// the writer gets every byte at once after the transport accepted them: it
// reports completion of the upload, not transfer progress.
func WithProgress(fn func(total int) io.Writer) Option {
	return func(c *Carver) {
		c.progress = fn
	}
}

// WithBaudRate and WithReadTimeout only matter to Open.
func WithBaudRate(baud int) Option {
	return func(c *Carver) {
		c.baud = baud
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *Carver) {
		c.timeout = d
	}
}
