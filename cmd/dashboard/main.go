package main

import (
	"context"
	zLog "github.com/rs/zerolog/log"
	"idea-dashboard/internal/api"
	"idea-dashboard/internal/client"
	"idea-dashboard/internal/config"
	"idea-dashboard/internal/dashboard"
	"idea-dashboard/internal/ui"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/models"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

// Usage: dashboard [idea words...]
// With arguments the idea is submitted once at startup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}

	interactive := ui.IsTTY(os.Stdout)
	if interactive {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Panicf("failed to open log file: %v", err)
		}
		defer f.Close()
		err = logger.NewGlobalTo(f, cfg.Log.Level, cfg.Log.Pretty)
		if err != nil {
			log.Panicf("failed to initialize logger: %v", err)
		}
	} else if err := logger.NewGlobal(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	backend := client.New(cfg.Backend.BaseURL, nil)
	dash := dashboard.New(backend, backend, models.DefaultRoster())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dash.Start(ctx)

	var mirror *api.Server
	if cfg.Mirror.Enabled {
		mirror = api.New(dash, cfg.Mirror.Addr)
		go func() {
			if err := mirror.Start(); err != nil {
				zLog.Error().Err(err).Msg("mirror server crash")
				stop()
			}
		}()
	}

	if idea := strings.Join(os.Args[1:], " "); idea != "" {
		if err := dash.Submit(idea); err != nil {
			zLog.Warn().Err(err).Msg("idea from arguments not submitted")
		}
	}

	if interactive {
		if err := ui.Run(ctx, dash); err != nil {
			zLog.Error().Err(err).Msg("terminal ui failed")
		}
	} else {
		zLog.Info().Str("backend", cfg.Backend.BaseURL).Msg("stdout is not a terminal, logging events")
		ui.RunHeadless(ctx, dash)
	}

	stop()
	zLog.Info().Msg("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if mirror != nil {
		if err := mirror.Stop(shutdownCtx); err != nil {
			zLog.Error().Err(err).Msg("mirror server forced to shutdown")
		}
	}
	dash.Stop()

	zLog.Info().Msg("dashboard exiting")
}
