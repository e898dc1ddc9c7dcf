package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"virtual-assistant-be/internal/bootstrap"
	"virtual-assistant-be/internal/cli"
	"virtual-assistant-be/internal/config"
	"virtual-assistant-be/internal/pkg/logger"
	"virtual-assistant-be/internal/server"
	"virtual-assistant-be/internal/tracer"
	pktNats "virtual-assistant-be/pkg/nats"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer sysLogger.Sync()

	app := &cli.App{
		NewAssistant: func(ctx context.Context) (cli.Assistant, error) {
			p, _, err := bootstrap.NewPipeline(ctx, cfg, sysLogger)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		Serve: func(ctx context.Context) error {
			shutdownTracer := tracer.InitTracer(cfg.Tracing)
			defer shutdownTracer(context.Background())

			container := bootstrap.NewContainer(cfg)
			defer container.Close()

			if err := container.ConsumerService.Consume(ctx); err != nil {
				return err
			}
			return server.New(cfg, container).Serve(ctx)
		},
	}
	if cfg.App.NatsURL != "" {
		app.NewEvents = func() (cli.EventSource, error) {
			return pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
