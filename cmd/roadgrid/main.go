package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanonone/roadgrid/internal/server"
	"github.com/sanonone/roadgrid/pkg/config"
	"github.com/sanonone/roadgrid/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	httpAddr := flag.String("http-addr", "", "Address for the REST API, overrides http_addr (e.g. :9191)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	eng, err := engine.Open(cfg.EngineOptions(logger))
	if err != nil {
		logger.Error("Failed to open engine", "error", err)
		os.Exit(1)
	}

	if !cfg.Network.Empty() {
		if err := eng.Bootstrap(cfg.Network); err != nil {
			logger.Error("Failed to apply initial network layout", "error", err)
			eng.Close()
			os.Exit(1)
		}
		st := eng.Stats()
		logger.Info("Initial network loaded",
			"intersections", st.Intersections,
			"roads", st.Roads,
			"signals", st.Signals)
	}

	srv := server.NewServer(eng, server.Options{
		Addr:       cfg.HTTPAddr,
		AuthToken:  cfg.AuthToken,
		MCPEnabled: cfg.MCPEnabled,
		Logger:     logger,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		srv.Shutdown()
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server stopped", "error", err)
		}
	}

	// The signal task must stop after the last request has been served.
	eng.Close()
	logger.Info("roadgrid stopped")
}
