package neje

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"nejetool/pkg/proto"
)

func (c *Carver) sendCMD(op proto.Opcode, arg ...byte) error {
	return c.sendBytes(proto.Frame{Op: op, Arg: arg}.Bytes())
}

func (c *Carver) sendBytes(bytes []byte) error {
	var sent int
	var cost time.Duration

	start := time.Now()
	if n, err := c.t.Write(bytes); err != nil {
		return errors.Wrapf(err, "write %x", bytes)
	} else {
		sent = n
		cost = time.Since(start)
	}

	c.logger.With(
		zap.Int("sent", sent),
		zap.String("cost", cost.String()),
		zap.String("data", fmt.Sprintf("%x", bytes)),
	).Debug("transfer")

	return nil
}

func (c *Carver) readN(n int) ([]byte, error) {
	buf := make([]byte, n)

	start := time.Now()
	if _, err := io.ReadFull(c.t, buf); err != nil {
		return nil, err
	}

	c.logger.With(
		zap.String("cost", time.Since(start).String()),
		zap.String("data", fmt.Sprintf("%x", buf)),
	).Debug("receive")

	return buf, nil
}
