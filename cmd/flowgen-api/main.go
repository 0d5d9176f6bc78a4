package main

import (
	"context"
	"os"

	"github.com/dukex/flowgen/pkg/cmd"
	"github.com/dukex/flowgen/pkg/config"
	"github.com/dukex/flowgen/pkg/generator"
	"github.com/dukex/flowgen/pkg/log"
	"github.com/dukex/flowgen/pkg/metrics"
	"github.com/dukex/flowgen/pkg/services"
	"github.com/dukex/flowgen/pkg/shape"
	"github.com/prometheus/client_golang/prometheus"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "flowgen-api",
		Usage:                 "Validate flow definitions and generate UI code over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the flowgen.yaml project file",
				Value:   config.DefaultPath,
				Sources: cli.EnvVars("FLOWGEN_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "plugins-path",
				Usage:   "Path to the directory containing emitter plugins",
				Sources: cli.EnvVars("PLUGINS_PATH"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (none, gochannel, kafka)",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "cache",
				Usage:   "Generation cache (memory, redis, none)",
				Sources: cli.EnvVars("CACHE_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for the redis cache",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("FLOWGEN_TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing flowgen API")

			cfg, err := cmd.LoadConfig(command)
			if err != nil {
				return err
			}

			reg := cmd.NewRegistry(logger, cfg.PluginsPath)

			generationCache, err := cmd.NewCache(ctx, cfg.Cache, logger)
			if err != nil {
				return err
			}

			if generationCache != nil {
				defer func() {
					if err := generationCache.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close cache", "error", err)
					}
				}()
			}

			eventBus, err := cmd.NewEventBus(cfg.EventBus, logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			tracer, shutdown, err := cmd.NewTracer(ctx, command.Bool("tracing"), "flowgen-api")
			if err != nil {
				return err
			}

			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
				}
			}()

			m := metrics.NewMetrics(prometheus.NewRegistry())
			shapeValidator := shape.MustNew()

			generation := services.NewGeneration(
				generator.New(shapeValidator, reg, logger),
				reg,
				services.WithCache(generationCache),
				services.WithEventBus(eventBus),
				services.WithMetrics(m),
				services.WithTracer(tracer),
				services.WithLogger(logger),
			)

			api := NewAPI(logger, generation, shapeValidator, m)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
