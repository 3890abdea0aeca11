package mockcloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jtollefsen/emberon/internal/logging"
	"github.com/jtollefsen/emberon/internal/urls"
)

// Config holds the mock server configuration
type Config struct {
	Host         string
	Port         int
	LogLevel     string
	FixturesPath string // YAML fleet definition (empty = built-in seed fleet)
}

// Server simulates the Emberon cloud API for development
type Server struct {
	config *Config
	fleet  *fleet
	http   *http.Server
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	f := newFleet()
	if config.FixturesPath != "" {
		if err := f.loadFixtures(config.FixturesPath); err != nil {
			return nil, err
		}
		logging.Info("Loaded fixtures",
			zap.String("path", config.FixturesPath),
			zap.Int("fires", f.size()),
		)
	}

	return &Server{
		config: config,
		fleet:  f,
	}, nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logging.Info("Starting mock Emberon cloud",
		zap.String("addr", addr),
		zap.Int("fires", s.fleet.size()),
		zap.String("log_level", s.config.LogLevel),
	)

	host := s.config.Host
	if host == "" {
		host = "localhost"
	}
	logging.Info("Point clients at the mock",
		zap.String("env", fmt.Sprintf("EMBERON_API_URL=http://%s:%d", host, s.config.Port)),
		zap.String("docs", urls.MockServer),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		err := s.http.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests up to a timeout
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	if s.http != nil {
		err = s.http.Shutdown(shutdownCtx)
	}

	logging.Sync()

	return err
}
