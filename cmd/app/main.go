package main

import (
	"context"
	"os"

	"github.com/DRSN-tech/go-cart/internal/app"
	config "github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/logger"
)

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(context.Background(), cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
