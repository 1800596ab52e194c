package server

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/infodancer/chatd/internal/config"
	"github.com/infodancer/chatd/internal/logging"
)

// ConnectionHandler drives one accepted connection. It returns when the
// connection is finished; the listener closes the socket afterwards if the
// handler has not already done so.
type ConnectionHandler func(ctx context.Context, conn *Connection)

// ListenerConfig holds configuration for creating a Listener.
type ListenerConfig struct {
	Address       string
	Mode          config.ListenerMode
	TLSConfig     *tls.Config
	MaxLineLength int
	Limiter       *ConnectionLimiter
	Logger        *slog.Logger
	Handler       ConnectionHandler
}

// Listener accepts connections on one address and spawns a handler
// goroutine per connection. A handler failure never aborts the accept
// loop.
type Listener struct {
	cfg ListenerConfig

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// NewListener creates a listener from cfg. Start binds the address.
func NewListener(cfg ListenerConfig) *Listener {
	return &Listener{cfg: cfg}
}

// Address returns the configured listen address.
func (l *Listener) Address() string {
	return l.cfg.Address
}

// Start binds the address and accepts connections until the context is
// cancelled or the listener is closed. It blocks for the lifetime of the
// listener and waits for in-flight handlers before returning.
func (l *Listener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.cfg.Address)
	if err != nil {
		return err
	}
	if l.cfg.Mode == config.ModeChatTLS {
		if l.cfg.TLSConfig == nil {
			_ = ln.Close()
			return errors.New("TLS required for chats mode but not configured")
		}
		ln = tls.NewListener(ln, l.cfg.TLSConfig)
	}

	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	l.cfg.Logger.Info("listening", slog.String("address", l.cfg.Address), slog.String("mode", string(l.cfg.Mode)))

	for {
		conn, err := ln.Accept()
		if err != nil {
			l.wg.Wait()
			if errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			return err
		}

		if l.cfg.Limiter != nil && !l.cfg.Limiter.TryAcquire() {
			l.cfg.Logger.Warn("connection limit reached, rejecting",
				slog.String("remote", conn.RemoteAddr().String()))
			_ = conn.Close()
			continue
		}

		l.wg.Add(1)
		go func(netConn net.Conn) {
			defer l.wg.Done()
			if l.cfg.Limiter != nil {
				defer l.cfg.Limiter.Release()
			}
			l.serve(ctx, netConn)
		}(conn)
	}
}

// serve frames one accepted socket and runs the handler. Handler panics
// are contained so one connection cannot take down the acceptor.
func (l *Listener) serve(ctx context.Context, netConn net.Conn) {
	logger := l.cfg.Logger.With(slog.String("remote", netConn.RemoteAddr().String()))
	conn := NewConnection(netConn, l.cfg.MaxLineLength)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("connection handler panic", slog.Any("panic", r))
		}
		_ = conn.Close()
	}()

	logger.Info("connection accepted")
	l.cfg.Handler(logging.WithContext(ctx, logger), conn)
	logger.Info("connection closed")
}

// Close stops accepting new connections. In-flight handlers are not
// interrupted.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	err := l.ln.Close()
	l.ln = nil
	return err
}
