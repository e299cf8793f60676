package remote

import (
	"nejetool/pkg/proto"
)

// Ack is the reply of calls without a result. gob refuses structs without
// exported fields.
type Ack struct {
	OK bool
}

type CommandRequest struct {
	Op  proto.Opcode
	Arg []byte
}

type UploadRequest struct {
	Picture []byte
}

type UploadResponse struct {
	Sent int
}
