// Package grpcserver runs the process's gRPC listener. It carries the
// standard health service so orchestrators can probe readiness.
package grpcserver

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Server struct {
	log    *slog.Logger
	gs     *grpc.Server
	health *health.Server
}

func New(log *slog.Logger, opts ...grpc.ServerOption) *Server {
	gs := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	return &Server{log: log, gs: gs, health: hs}
}

// SetServing flips the status reported for service. The empty name is the
// overall process status.
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Serve blocks until the listener fails or the server is stopped.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// Run listens on addr and serves in the background.
func (s *Server) Run(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.Serve(lis); err != nil {
			s.log.Error("grpc server error", "err", err)
		}
	}()
	return nil
}

// Stop marks every service as not serving, then drains in-flight calls. If
// ctx ends first the remaining calls are cut off.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.gs.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.gs.Stop()
		return ctx.Err()
	}
}
