package convert

import (
	"io"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"nejetool/pkg/proto"
)

type Option func(c *Converter)

func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		c.log = log
	}
}

func WithHTTPClient(cli *resty.Client) Option {
	return func(c *Converter) {
		c.cli = cli.SetDoNotParseResponse(true)
	}
}

func WithProgressWriter(w io.Writer) Option {
	return func(c *Converter) {
		c.progress = w
	}
}

// FilterOption resolves a resampling filter by name.
func FilterOption(name string) (Option, error) {
	f, ok := Filters[name]
	if !ok {
		return nil, errors.Wrapf(proto.ErrInvalidArgument, "unknown filter %q (want one of %v)", name, proto.KeysOf(Filters))
	}
	return func(c *Converter) {
		c.filter = f
	}, nil
}
