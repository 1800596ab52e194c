package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/infodancer/chatd/internal/config"
	"github.com/infodancer/chatd/internal/logging"
)

// Server coordinates multiple listeners sharing one connection handler and
// one connection limiter.
type Server struct {
	cfg       *config.Config
	tlsConfig *tls.Config
	logger    *slog.Logger
	handler   ConnectionHandler
	limiter   *ConnectionLimiter

	listeners []*Listener
	mu        sync.Mutex
}

// Config holds configuration for creating a new Server.
type Config struct {
	Cfg       *config.Config
	TLSConfig *tls.Config
	Logger    *slog.Logger
}

// New creates a new Server with the given configuration.
func New(sc Config) (*Server, error) {
	logger := sc.Logger
	if logger == nil {
		logger = logging.NewLogger(sc.Cfg.LogLevel)
	}

	s := &Server{
		cfg:       sc.Cfg,
		tlsConfig: sc.TLSConfig,
		logger:    logger,
		limiter:   NewConnectionLimiter(sc.Cfg.Limits.MaxConnections),
	}

	return s, nil
}

// SetHandler sets the connection handler for all listeners.
// Must be called before Run.
func (s *Server) SetHandler(handler ConnectionHandler) {
	s.handler = handler
}

// Run starts all configured listeners and blocks until the context is
// cancelled. All listeners run in their own goroutines.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()

	if s.handler == nil {
		s.mu.Unlock()
		return fmt.Errorf("no connection handler configured")
	}

	for _, lc := range s.cfg.Listeners {
		var tlsCfg *tls.Config
		if lc.Mode == config.ModeChatTLS {
			if s.tlsConfig == nil {
				s.mu.Unlock()
				return fmt.Errorf("listener %s: TLS required for chats mode but not configured", lc.Address)
			}
			tlsCfg = s.tlsConfig
		}

		listener := NewListener(ListenerConfig{
			Address:       lc.Address,
			Mode:          lc.Mode,
			TLSConfig:     tlsCfg,
			MaxLineLength: s.cfg.Limits.MaxLineLength,
			Limiter:       s.limiter,
			Logger:        s.logger,
			Handler:       s.handler,
		})
		s.listeners = append(s.listeners, listener)
	}

	s.mu.Unlock()

	s.logger.Info("starting server",
		slog.Int("listener_count", len(s.listeners)),
	)

	var wg sync.WaitGroup
	errChan := make(chan error, len(s.listeners))

	for _, l := range s.listeners {
		wg.Add(1)
		go func(listener *Listener) {
			defer wg.Done()
			if err := listener.Start(ctx); err != nil && err != context.Canceled {
				errChan <- fmt.Errorf("listener %s: %w", listener.Address(), err)
			}
		}(l)
	}

	<-ctx.Done()

	s.logger.Info("server shutting down")

	wg.Wait()

	close(errChan)
	var firstErr error
	for err := range errChan {
		if firstErr == nil {
			firstErr = err
		}
		s.logger.Error("listener error", slog.String("error", err.Error()))
	}

	s.logger.Info("server stopped")

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// Shutdown stops all listeners. In-flight connections finish on their own.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.listeners {
		_ = l.Close()
	}
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Limiter returns the server's connection limiter.
func (s *Server) Limiter() *ConnectionLimiter {
	return s.limiter
}
