package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"ieqi-server/confs"
	"ieqi-server/db"
	"ieqi-server/logging"
	"ieqi-server/repositories"
	"ieqi-server/server"
	"ieqi-server/services"
	"ieqi-server/usecases"

	"gorm.io/gorm/logger"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appLog := logging.New(cfg.Logging)

	gormLevel := logger.Warn
	if cfg.Logging.Level == "debug" {
		gormLevel = logger.Info
	}

	// connect to the reading store
	database, err := db.Connect(cfg.Database, gormLevel, appLog)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close() //nolint:errcheck // process exit

	var sinks []usecases.ReadingSink
	if cfg.Influx.Enabled() {
		mirror := services.NewInfluxMirror(cfg.Influx, appLog)
		defer mirror.Close()
		sinks = append(sinks, mirror)
	}

	useCase := usecases.NewReadingUseCase(repositories.NewReadingRepository(database), sinks...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run server
	srv := server.NewServer(cfg, useCase, appLog)
	if err := srv.Start(ctx); err != nil {
		appLog.Error("server stopped", "error", err)
	}
}
