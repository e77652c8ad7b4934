package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/consignaciones-api/internal/infrastructure/notify"
	"github.com/jhoicas/consignaciones-api/pkg/config"
	"github.com/jhoicas/consignaciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-worker"})
	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("REDIS_ADDR es requerido para el worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("redis", cfg.Redis.Addr).Msg("worker de notificaciones iniciado")
	if err := notify.NewWorker(cfg.Redis.Addr, 0, log.Zerolog()).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker de notificaciones")
	}
	log.Info().Msg("worker detenido")
}
