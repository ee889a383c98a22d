//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"condo/config"
	"condo/infras/jwt"
	"condo/infras/kafka"
	"condo/infras/otel"
	"condo/infras/postgres"
	"condo/infras/redis"
	areaRepository "condo/internal/domains/area/repository"
	areaService "condo/internal/domains/area/service"
	reservationRepository "condo/internal/domains/reservation/repository"
	reservationService "condo/internal/domains/reservation/service"
	"condo/internal/events"
	areaHandler "condo/internal/handlers/area"
	reservationHandler "condo/internal/handlers/reservation"
	"condo/internal/worker"
	"condo/permissions"
	"condo/shared/cache"
	"condo/shared/lock"
	"condo/transport/http"
	"condo/transport/http/middleware"
	"condo/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	permissions.Get,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.NewKeyed,
	events.NewPublisher,
)

var areaDomain = wire.NewSet(
	areaRepository.New,
	areaService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var domains = wire.NewSet(
	areaDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	areaHandler.New,
	reservationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeCompletionWorker() *worker.Completion {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		wire.Bind(new(worker.Sweeper), new(reservationService.Reservation)),
		worker.NewCompletion,
	)

	return &worker.Completion{}
}
