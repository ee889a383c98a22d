package handler

import (
	"net/http"

	"condo/config"
	"condo/di"
	"condo/infras/metrics"
	"condo/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	metrics.Register()

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
