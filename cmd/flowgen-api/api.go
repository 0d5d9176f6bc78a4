// Package main provides the flowgen HTTP API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/flowgen/pkg/metrics"
	"github.com/dukex/flowgen/pkg/models"
	"github.com/dukex/flowgen/pkg/services"
	"github.com/dukex/flowgen/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	generation *services.Generation
	schema     models.SchemaProvider
	metrics    *metrics.Metrics
}

func NewAPI(
	logger *slog.Logger,
	generation *services.Generation,
	schema models.SchemaProvider,
	metrics *metrics.Metrics,
) *API {
	return &API{
		logger:     logger,
		generation: generation,
		schema:     schema,
		metrics:    metrics,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.generation, a.schema, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flowgen API")
	})

	f := app.Group("/flows")
	f.Post("/validate", handlers.Validate)
	f.Post("/generate", handlers.Generate)
	f.Get("/schema", handlers.Schema)

	app.Get("/frameworks", handlers.Frameworks)
	app.Get("/health", handlers.HealthCheck)

	if a.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(a.metrics.Handler()))
	}

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
