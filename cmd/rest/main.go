package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"simvado-be/internal/bootstrap"
	"simvado-be/internal/config"
	"simvado-be/internal/server"
	"simvado-be/internal/tracer"
	"simvado-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("BOOT", "Consumer failed to start", map[string]interface{}{"error": err.Error()})
	}
	if err := container.AuditService.Start(ctx); err != nil {
		container.Logger.Warn("BOOT", "Audit subscriber failed to start", map[string]interface{}{"error": err.Error()})
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			container.Logger.Error("BOOT", "Shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("BOOT", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
