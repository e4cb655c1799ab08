package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blogicum/config"
	"blogicum/internal/app"
	"blogicum/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.New(os.Stdout, cfg.LogLevel)
	ctx := logger.WithLogger(context.Background(), log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error("init app", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped", "error", err)
		os.Exit(1)
	}
}
