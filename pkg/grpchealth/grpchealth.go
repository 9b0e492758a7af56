package grpchealth

import (
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server exposes grpc.health.v1.Health for orchestrator probes.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	log    *slog.Logger
}

func New(log *slog.Logger) *Server {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		srv:    srv,
		health: hs,
		log:    log,
	}
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc health service started", slog.String("address", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// SetServing flips the status reported for service ("" is the whole process).
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
