package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"virtual-assistant-be/internal/bootstrap"
	"virtual-assistant-be/internal/config"
	"virtual-assistant-be/internal/server"
	"virtual-assistant-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	log.Println("Background: Starting Action Consumer...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	srv := server.New(cfg, container)
	if err := srv.Serve(ctx); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
