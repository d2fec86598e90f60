package server

import (
	"karaoke-queue/domain"
	"log/slog"
	"net"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health entry flipped by the session lifecycle.
const ServiceName = "karaoke.queue.v1.Session"

// HealthServer exposes grpc.health.v1 for the running session.
// The session service is SERVING between start and stop only.
type HealthServer struct {
	log    *slog.Logger
	grpc   *grpc.Server
	health *health.Server
}

func NewHealthServer(log *slog.Logger) *HealthServer {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(log)))
	h := health.NewServer()
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, h)
	return &HealthServer{log: log, grpc: s, health: h}
}

func (s *HealthServer) SessionStarted(id domain.SessionID) {
	s.log.Info("Session serving", "session_id", id)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func (s *HealthServer) SessionStopped(id domain.SessionID) {
	s.log.Info("Session no longer serving", "session_id", id)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Serve blocks until the listener fails or GracefulStop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	for name := range s.grpc.GetServiceInfo() {
		s.log.Debug("📡 gRPC exposed services", "name", name)
	}
	return s.grpc.Serve(lis)
}

func (s *HealthServer) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
