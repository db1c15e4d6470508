package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/config"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the gRPC health service.
const ServiceName = "cargo.booking"

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	log        logrus.FieldLogger
}

func NewServers(cfg *config.Config, handler http.Handler, log logrus.FieldLogger) *Servers {
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: healthSrv,
		log:    log,
	}
}

// Run starts gRPC health and HTTP servers and blocks until ctx is canceled or
// a server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log logrus.FieldLogger) error {
	s := NewServers(cfg, handler, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	return s.Serve(ctx, lis)
}

// Serve runs both servers, gRPC on grpcLis and HTTP on its configured address.
func (s *Servers) Serve(ctx context.Context, grpcLis net.Listener) error {
	errCh := make(chan error, 2)

	s.SetServing(true)
	go func() {
		s.log.WithField("addr", grpcLis.Addr().String()).Info("grpc health server listening")
		errCh <- s.grpcServer.Serve(grpcLis)
	}()
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stop()
		return err
	case <-ctx.Done():
		return s.stop()
	}
}

// SetServing flips the reported health of the whole server and the named service.
func (s *Servers) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Servers) stop() error {
	s.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.log.Info("servers stopped")
	return nil
}
