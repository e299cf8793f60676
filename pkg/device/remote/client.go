package remote

import (
	"net/rpc"
	"strings"

	"github.com/pkg/errors"

	"nejetool/pkg/proto"
)

func New(addr string) (proto.Control, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: client}, nil
}

// Client forwards the engraver vocabulary to a Service on another host.
type Client struct {
	rpc *rpc.Client
}

func (c *Client) Connect() error {
	return remoteErr(c.rpc.Call("Service.Connect", Ack{}, &Ack{}))
}

func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) Command(op proto.Opcode, arg ...byte) error {
	return remoteErr(c.rpc.Call("Service.Command", CommandRequest{Op: op, Arg: arg}, &Ack{}))
}

func (c *Client) MoveBeam(dir proto.Direction) error {
	return remoteErr(c.rpc.Call("Service.MoveBeam", dir, &Ack{}))
}

func (c *Client) ReverseAxis(axis proto.Axis) error {
	return remoteErr(c.rpc.Call("Service.ReverseAxis", axis, &Ack{}))
}

func (c *Client) SetStepPause(ms int) error {
	return remoteErr(c.rpc.Call("Service.SetStepPause", ms, &Ack{}))
}

func (c *Client) SetBurningTime(ms int) error {
	return remoteErr(c.rpc.Call("Service.SetBurningTime", ms, &Ack{}))
}

func (c *Client) ControlCarve(mode proto.SeekMode) error {
	return remoteErr(c.rpc.Call("Service.ControlCarve", mode, &Ack{}))
}

func (c *Client) UploadPicture(bs []byte) (int, error) {
	var resp UploadResponse
	err := c.rpc.Call("Service.UploadPicture", &UploadRequest{Picture: bs}, &resp)
	return resp.Sent, remoteErr(err)
}

var sentinels = []error{
	proto.ErrInvalidArgument,
	proto.ErrProtocolMismatch,
	proto.ErrPortNotFound,
	proto.ErrReadTimeout,
}

// remoteErr restores the sentinel a server side error was built from, so
// callers can keep using errors.Is across the wire.
func remoteErr(err error) error {
	se, ok := err.(rpc.ServerError)
	if !ok {
		return err
	}
	for _, sentinel := range sentinels {
		if strings.HasSuffix(string(se), sentinel.Error()) {
			return errors.Wrap(sentinel, strings.TrimSuffix(string(se), ": "+sentinel.Error()))
		}
	}
	return err
}
