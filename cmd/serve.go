package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	zapLog "go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/config"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/observability"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			serve()
			return nil
		},
	}
}

func serve() {
	bootstrap := config.NewZap("info")
	koanf := config.NewKoanf(envFile, bootstrap)
	zap := config.NewZap(koanf.String("LOG_LEVEL"))

	shutdownTracing, err := observability.Init(context.Background(), config.LoadObservabilityConfig(koanf, zap), zap)
	if err != nil {
		zap.Fatal("failed to initialize tracing", zapLog.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.NewMetrics(registry)
	if err != nil {
		zap.Fatal("failed to register metrics", zapLog.Error(err))
	}

	fiber := config.NewFiber(koanf)
	rds := config.NewRedisClient(koanf, zap)
	postgresql := config.NewPostgresqlPool(koanf, zap)

	config.UseMiddleware(fiber, koanf, zap)

	drain := config.Server(&config.ServerConfig{
		Router:   fiber,
		DB:       postgresql,
		DBCache:  rds,
		Log:      zap,
		Config:   koanf,
		Metrics:  m,
		Gatherer: registry,
	})

	GO_SERVER_PORT := koanf.String("GO_SERVER")
	if GO_SERVER_PORT == "" {
		GO_SERVER_PORT = ":8080"
	}

	zap.Info("Server is running on: " + GO_SERVER_PORT)

	go func() {
		err := fiber.Listen(GO_SERVER_PORT)
		if err != nil {
			zap.Fatal("error starting server", zapLog.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	zap.Info("got one of stop signals")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = fiber.ShutdownWithContext(ctx)
	if err != nil {
		zap.Warn("timeout, forced kill!", zapLog.Error(err))
		_ = zap.Sync()
		os.Exit(1)
	}

	err = drain(ctx)
	if err != nil {
		zap.Warn("pending report mails abandoned", zapLog.Error(err))
	}
	postgresql.Close()
	_ = rds.Close()

	err = shutdownTracing(ctx)
	if err != nil {
		zap.Warn("failed to flush traces", zapLog.Error(err))
	}

	zap.Info("server has shut down gracefully")
	_ = zap.Sync()
}
