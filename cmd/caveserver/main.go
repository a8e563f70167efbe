// Command caveserver serves cave generation over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/cavemesh/internal/config"
	"github.com/lawnchairsociety/cavemesh/internal/database"
	"github.com/lawnchairsociety/cavemesh/internal/logger"
	"github.com/lawnchairsociety/cavemesh/internal/server"
)

func main() {
	configFile := flag.String("config", "config/cave.yaml", "Path to config YAML file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	// Initialize logger first (before any logging)
	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting cave server", "config", *configFile)

	var opts []server.Option
	if cfg.Store.Enabled {
		db, err := database.OpenWithConfig(cfg.Store.Config)
		if err != nil {
			logger.Error("Failed to open run store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("Run store opened", "driver", db.Dialect().DriverName())
		opts = append(opts, server.WithStore(db))
	}

	srv := server.New(cfg.Server, cfg.Generation, opts...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	case <-sigChan:
	}

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warning("Shutdown incomplete", "error", err)
	}
	logger.Info("Server stopped")
}
