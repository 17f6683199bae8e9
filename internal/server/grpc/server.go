// Package grpc exposes the standard gRPC health service. Status follows the
// database: SERVING while pings succeed, NOT_SERVING otherwise.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name of the notes API.
const ServiceName = "gophnotes.v1.Notes"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthServer struct {
	address         string
	logger          logging.Logger
	pinger          Pinger
	interval        time.Duration
	shutdownTimeout time.Duration
	health          *health.Server
}

// NewHealthServer builds a server that pings p every interval. A nil p
// reports SERVING unconditionally.
func NewHealthServer(a string, l logging.Logger, p Pinger, interval, shutdownTimeout time.Duration) *HealthServer {
	return &HealthServer{
		address:         a,
		logger:          l.With("module", "grpc_health"),
		pinger:          p,
		interval:        interval,
		shutdownTimeout: shutdownTimeout,
		health:          health.NewServer(),
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.check(ctx)

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		// Watch streams stay open until clients leave; Shutdown flips them
		// to NOT_SERVING first.
		s.health.Shutdown()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(s.shutdownTimeout):
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *HealthServer) watch(ctx context.Context) {
	if s.pinger == nil || s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *HealthServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	if s.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		err := s.pinger.PingContext(pingCtx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "database ping failed", "error", err.Error())
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
