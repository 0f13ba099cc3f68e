package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/gduverger/instapack/internal/app"
	"github.com/gduverger/instapack/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Opts{Env: os.Getenv("APP_ENV")})

	a := fx.New(
		fx.Logger(log),
		app.Bot,
	)

	if err := a.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := a.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
