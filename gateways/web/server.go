package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	config "github.com/xilidan/voicestock/config/web"
	"github.com/xilidan/voicestock/gateways/web/handler"
	"github.com/xilidan/voicestock/pkg/grpchealth"
	"github.com/xilidan/voicestock/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	handler *handler.Handler
	health  *grpchealth.Server
}

func New(cfg *config.Config, log *slog.Logger, h *handler.Handler) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		handler: h,
		health:  grpchealth.New(log),
	}
}

func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.Middleware(s.log))
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	s.handler.RegisterRoutes(router)
	return router
}

func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 15 * time.Second,
		// Writes wait on the provider, so allow its timeout plus slack.
		WriteTimeout: s.cfg.ASR.Transcription.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	serverErrors := make(chan error, 2)

	if s.cfg.HealthGRPCPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.HealthGRPCPort))
		if err != nil {
			return fmt.Errorf("failed to listen on grpc health port: %w", err)
		}
		go func() {
			serverErrors <- s.health.Serve(lis)
		}()
		defer s.health.Stop()
	}

	go func() {
		s.log.Info("web gateway started", slog.String("address", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()
	s.health.SetServing("", true)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		s.log.Info("start shutdown", slog.String("signal", sig.String()))
	case <-ctx.Done():
		s.log.Info("closing server due to context cancellation")
	}

	s.health.SetServing("", false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed", slog.String("error", err.Error()))
		srv.Close()
		return fmt.Errorf("failed to gracefully shutdown server: %w", err)
	}
	if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	s.log.Info("server stopped cleanly")
	return nil
}
