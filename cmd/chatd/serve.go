package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/infodancer/chatd/internal/chat"
	"github.com/infodancer/chatd/internal/config"
	"github.com/infodancer/chatd/internal/logging"
	"github.com/infodancer/chatd/internal/metrics"
	"github.com/infodancer/chatd/internal/server"
)

func runServe(cfg config.Config) {
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	// Load TLS configuration when a certificate is configured.
	var tlsConfig *tls.Config
	if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading TLS certificate: %v\n", err)
			os.Exit(1)
		}
		tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   cfg.TLS.MinTLSVersion(),
		}
	}

	// Metrics server and collector; a disabled config collects nothing.
	var collector metrics.Collector = &metrics.NoopCollector{}
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewPrometheusServer(cfg.Metrics.Address, cfg.Metrics.Path)
		collector = metrics.NewPrometheusCollector(metricsServer.Registry())
		go func() {
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	srv, err := server.New(server.Config{
		Cfg:       &cfg,
		TLSConfig: tlsConfig,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating server: %v\n", err)
		os.Exit(1)
	}

	registry := chat.NewRegistry()
	registry.SetCollector(collector)
	srv.SetHandler(chat.Handler(registry, chat.HandlerConfig{
		PingInterval: cfg.Liveness.Interval(),
		Collector:    collector,
	}))

	logger.Info("starting chatd",
		"listeners", len(cfg.Listeners),
		"ping_interval", cfg.Liveness.Interval().String())

	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("chat server stopped")
}
