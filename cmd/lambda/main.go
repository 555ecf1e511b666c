package main

import (
	"context"
	"os"

	"github.com/DRSN-tech/go-cart/internal/app"
	config "github.com/DRSN-tech/go-cart/internal/cfg"
	v1Lambda "github.com/DRSN-tech/go-cart/internal/delivery/v1/lambda"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/aws/aws-lambda-go/lambda"
)

// Сборка выполняется один раз на холодном старте; пул каталога и клиент хранилища переиспользуются между вызовами.
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

	handler := v1Lambda.NewHandler(application.Dispatcher(), log)
	lambda.Start(handler.Handle)
}
