package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/crmdesk/internal/platform/grpc"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/timeouts"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// ServerConfig configures the process listeners.
type ServerConfig struct {
	HTTPAddr string
	GRPCAddr string
	Handler  http.Handler
	Logger   *zap.Logger
	// HealthServices are reported SERVING on the gRPC health endpoint.
	HealthServices []string
}

// Server serves the web handler over HTTP and the health protocol over gRPC.
type Server struct {
	httpServer   *http.Server
	httpListener net.Listener
	grpcServer   *gogrpc.Server
	grpcListener net.Listener
	health       *health.Server
	logger       *zap.Logger
}

// NewServer opens both listeners.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("http handler is required")
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, fmt.Errorf("http address is required")
	}
	grpcAddr := strings.TrimSpace(cfg.GRPCAddr)
	if grpcAddr == "" {
		return nil, fmt.Errorf("gRPC address is required")
	}

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen http %s: %w", httpAddr, err)
	}
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		_ = httpListener.Close()
		return nil, fmt.Errorf("listen gRPC %s: %w", grpcAddr, err)
	}
	grpcServer, healthServer := grpc.NewHealthServer(cfg.HealthServices...)
	return &Server{
		httpServer: &http.Server{
			Handler:           cfg.Handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		httpListener: httpListener,
		grpcServer:   grpcServer,
		grpcListener: grpcListener,
		health:       healthServer,
		logger:       logging.OrNop(cfg.Logger),
	}, nil
}

// HTTPAddr returns the bound HTTP address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the bound gRPC address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Serve blocks until ctx ends or either listener fails, then shuts both
// servers down.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", s.HTTPAddr()))
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		s.logger.Info("grpc server listening", zap.String("addr", s.GRPCAddr()))
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, gogrpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
		return nil
	})
	return group.Wait()
}
