package remote

import (
	"context"
	"net/http"
	"net/rpc"

	"github.com/rs/xid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"nejetool/pkg/proto"
)

// Proxy serves dev over net/rpc on srv for the lifetime of the fx app.
func Proxy(dev proto.Control, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	rs := rpc.NewServer()
	if err := rs.Register(NewService(dev, logger)); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, rs)
	srv.Handler = mux

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("rpc server failed")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("rpc proxy listening")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

// NewService expects dev to be safe for concurrent use, net/rpc serves
// calls in parallel.
func NewService(dev proto.Control, logger *zap.Logger) *Service {
	return &Service{dev: dev, logger: logger}
}

type Service struct {
	dev    proto.Control
	logger *zap.Logger
}

func (s *Service) log(method string) *zap.Logger {
	return s.logger.With(zap.String("method", method), zap.String("req", xid.New().String()))
}

func (s *Service) done(log *zap.Logger, ack *Ack, err error) error {
	if err != nil {
		log.With(zap.Error(err)).Info("failed")
		return err
	}
	if ack != nil {
		ack.OK = true
	}
	log.Debug("done")
	return nil
}

func (s *Service) Connect(_ Ack, ack *Ack) error {
	return s.done(s.log("connect"), ack, s.dev.Connect())
}

func (s *Service) Command(req CommandRequest, ack *Ack) error {
	log := s.log("command").With(zap.Stringer("op", req.Op))
	return s.done(log, ack, s.dev.Command(req.Op, req.Arg...))
}

func (s *Service) MoveBeam(dir proto.Direction, ack *Ack) error {
	return s.done(s.log("move-beam"), ack, s.dev.MoveBeam(dir))
}

func (s *Service) ReverseAxis(axis proto.Axis, ack *Ack) error {
	return s.done(s.log("reverse-axis"), ack, s.dev.ReverseAxis(axis))
}

func (s *Service) SetStepPause(ms int, ack *Ack) error {
	return s.done(s.log("set-step-pause"), ack, s.dev.SetStepPause(ms))
}

func (s *Service) SetBurningTime(ms int, ack *Ack) error {
	return s.done(s.log("set-burning-time"), ack, s.dev.SetBurningTime(ms))
}

func (s *Service) ControlCarve(mode proto.SeekMode, ack *Ack) error {
	return s.done(s.log("control-carve"), ack, s.dev.ControlCarve(mode))
}

func (s *Service) UploadPicture(req *UploadRequest, resp *UploadResponse) error {
	log := s.log("upload-picture").With(zap.Int("size", len(req.Picture)))
	n, err := s.dev.UploadPicture(req.Picture)
	resp.Sent = n
	return s.done(log, nil, err)
}
