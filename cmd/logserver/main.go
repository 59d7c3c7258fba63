package main

import (
	"context"
	zLog "github.com/rs/zerolog/log"
	"idea-dashboard/internal/config"
	"idea-dashboard/internal/logserver"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/models"
	"log"
	"os/signal"
	"syscall"
	"time"
)

// logserver serves the agents' log files and accepts ideas so the dashboard
// can run without the orchestration back end.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	err = logger.NewGlobal(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	app := logserver.New(cfg.LogServer, models.DefaultRoster().IDs())

	go func() {
		err := app.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
