package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"tinyweb/internal/config"
	"tinyweb/internal/server"
	"tinyweb/internal/telemetry"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "webd:", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "webd:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tcfg := telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Level:       cfg.LogLevel,
	}
	shutdown, err := telemetry.Setup(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	logger := telemetry.NewLogger(tcfg, os.Stderr)
	metrics, err := telemetry.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	table, err := routes()
	if err != nil {
		return err
	}

	srv, err := server.Serve(cfg.Addr, table,
		server.WithLogger(logger),
		server.WithMetrics(metrics),
		server.WithWorkers(cfg.Workers),
		server.WithRecvBufferSize(cfg.RecvBufferSize),
		server.WithStrictURL(cfg.StrictURL),
		server.WithIOTimeout(cfg.IOTimeout),
	)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	defer srv.Close()
	logger.Info("server started", "addr", srv.Addr().String(), "workers", cfg.Workers, "routes", table.Len())

	<-ctx.Done()

	logger.Info("server gracefully stopped")
	return nil
}
