package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-support-chat-be/internal/bootstrap"
	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/internal/server"
	"ai-support-chat-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run owns the deferred cleanups; main exits only after they have run.
func run() error {
	// 1. Load Configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(sysLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, cfg, sysLogger)
	defer container.Close()

	// 4. Server
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})

	g.Go(func() error {
		return srv.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		sysLogger.Info("SERVER", "Shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := shutdownTracer(shutdownCtx); err != nil {
			sysLogger.Warn("TRACER", "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error("SERVER", "Server stopped", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}
