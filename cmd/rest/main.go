package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-writingpad-be/internal/bootstrap"
	"ai-writingpad-be/internal/config"
	"ai-writingpad-be/internal/server"
	"ai-writingpad-be/internal/tracer"

	"github.com/fatih/color"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	if err := container.FlusherService.Start(context.Background()); err != nil {
		log.Panicf("Unable to start flusher: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	color.Cyan("🚀 Writingpad backend starting (data dir: %s)", cfg.Storage.DataDir)

	// 5. Run Server
	go func() {
		if err := srv.Run(); err != nil {
			log.Panicf("Server stopped: %v", err)
		}
	}()

	// 6. Wait for shutdown signal, then drain: stop accepting requests,
	// flush buffered edits, sync logs.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	color.Yellow("Shutting down...")

	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	container.FlusherService.Close()
	_ = container.Logger.Sync()

	color.Green("✅ Shutdown complete")
}
