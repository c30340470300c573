// ABOUTME: Main entry point for the JSON-RPC playground server
// ABOUTME: Loads configuration, wires the pipeline, and serves until signaled

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/harper/jsonrpc-playground/internal/config"
	"github.com/harper/jsonrpc-playground/internal/dispatch"
	"github.com/harper/jsonrpc-playground/internal/history"
	"github.com/harper/jsonrpc-playground/internal/logger"
	"github.com/harper/jsonrpc-playground/internal/logstore"
	"github.com/harper/jsonrpc-playground/internal/management"
	"github.com/harper/jsonrpc-playground/internal/methods"
	"github.com/harper/jsonrpc-playground/internal/registry"
	"github.com/harper/jsonrpc-playground/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	initConfig := flag.Bool("init", false, "write a starter config file and exit")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger.SetVerbose(*verbose)

	if *initConfig {
		if err := config.WriteDefault(*configPath); err != nil {
			logger.Error("failed to write config: %v", err)
			os.Exit(1)
		}
		logger.Info("wrote starter config to %s", *configPath)
		return
	}

	// .env is optional; it only feeds PLAYGROUND_* overrides.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config: %v", err)
		os.Exit(1)
	}

	var hist *history.DB
	if cfg.Database.Path != "" {
		hist, err = history.Open(cfg.Database.Path)
		if err != nil {
			logger.Error("failed to open call history: %v", err)
			os.Exit(1)
		}
		defer func() { _ = hist.Close() }()
		logger.Info("call history enabled at %s", cfg.Database.Path)
	}

	reg := registry.New()
	methods.NewService(logstore.New(cfg.Log.Path)).RegisterAll(reg)

	dispatcher := dispatch.New(reg, hist)
	readTimeout := time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second

	rpcSrv := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     server.NewServer(dispatcher),
		ReadTimeout: readTimeout,
	}
	mgmtSrv := &http.Server{
		Addr:        cfg.Server.ManagementAddr(),
		Handler:     management.NewServer(cfg, reg, hist),
		ReadTimeout: readTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("JSON-RPC endpoint listening on http://%s/", cfg.Server.Addr())
		errCh <- rpcSrv.ListenAndServe()
	}()
	go func() {
		logger.Info("management API listening on http://%s/api/", cfg.Server.ManagementAddr())
		errCh <- mgmtSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed: %v", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = rpcSrv.Shutdown(shutdownCtx)
	_ = mgmtSrv.Shutdown(shutdownCtx)
}
