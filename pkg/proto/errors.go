package proto

import (
	"github.com/pkg/errors"
)

// Sentinel texts carry the package prefix so they stay distinguishable from
// OS errors once flattened to a string by the remote proxy.
var (
	ErrInvalidArgument  = errors.New("neje: invalid argument")
	ErrProtocolMismatch = errors.New("neje: protocol mismatch")
	ErrPortNotFound     = errors.New("neje: serial port not found")
	ErrReadTimeout      = errors.New("neje: serial read timeout")
)
