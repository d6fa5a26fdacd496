package grpc_handler

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthv1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer answers standard grpc_health_v1 probes. Peers' health probers
// dial the address gossip advertises for this node, so a coordinator that
// stopped serving is marked unhealthy on their rings.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
}

// NewHealthServer binds the listener immediately so the advertised address
// is known before gossip starts; Serve is called separately.
func NewHealthServer(addr string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer()
	healthService := health.NewServer()
	healthv1.RegisterHealthServer(grpcServer, healthService)

	return &HealthServer{
		server:   grpcServer,
		health:   healthService,
		listener: listener,
	}, nil
}

// Addr returns the bound listen address.
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks answering probes until Stop is called.
func (s *HealthServer) Serve() error {
	return s.server.Serve(s.listener)
}

// SetServing flips the advertised status; probers map NOT_SERVING to an
// unhealthy ring member.
func (s *HealthServer) SetServing(serving bool) {
	status := healthv1.HealthCheckResponse_SERVING
	if !serving {
		status = healthv1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Stop drains in-flight probes and closes the listener.
func (s *HealthServer) Stop() {
	s.server.GracefulStop()
}
