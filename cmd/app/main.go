package main

import (
	"context"

	"condo/config"
	"condo/di"
	"condo/infras/metrics"
	"condo/shared/logger"
)

// @title Condo Reservation API
// @version 1.0
// @description Reservation backend for condominium common areas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	metrics.Register()

	sweep := di.InitializeCompletionWorker()
	go sweep.Run(context.Background())

	http := di.InitializeService()
	http.Serve()
}
