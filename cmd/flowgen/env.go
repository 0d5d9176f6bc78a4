package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/flowgen/pkg/cache"
	"github.com/dukex/flowgen/pkg/cmd"
	"github.com/dukex/flowgen/pkg/config"
	"github.com/dukex/flowgen/pkg/eventbus"
	"github.com/dukex/flowgen/pkg/generator"
	"github.com/dukex/flowgen/pkg/loader"
	"github.com/dukex/flowgen/pkg/log"
	"github.com/dukex/flowgen/pkg/services"
	"github.com/dukex/flowgen/pkg/shape"
	cli "github.com/urfave/cli/v3"
)

var errMissingFile = errors.New("a flow definition file is required")

// environment is what every subcommand needs: the project config and a
// generation service wired from it.
type environment struct {
	logger     *slog.Logger
	config     config.File
	generation *services.Generation
	cache      cache.Cache
	bus        eventbus.EventBus
}

func newEnvironment(ctx context.Context, command *cli.Command, action string) (*environment, error) {
	logger := log.WithModule("flowgen").With("action", action)

	cfg, err := cmd.LoadConfig(command)
	if err != nil {
		return nil, err
	}

	reg := cmd.NewRegistry(logger, cfg.PluginsPath)

	generationCache, err := cmd.NewCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	bus, err := cmd.NewEventBus(cfg.EventBus, logger)
	if err != nil {
		if generationCache != nil {
			_ = generationCache.Close()
		}

		return nil, err
	}

	generation := services.NewGeneration(
		generator.New(shape.MustNew(), reg, logger),
		reg,
		services.WithCache(generationCache),
		services.WithEventBus(bus),
		services.WithLogger(logger),
	)

	return &environment{
		logger:     logger,
		config:     cfg,
		generation: generation,
		cache:      generationCache,
		bus:        bus,
	}, nil
}

func (e *environment) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("Failed to close cache", "error", err)
		}
	}

	if err := e.bus.Close(); err != nil {
		e.logger.Error("Failed to close event bus", "error", err)
	}
}

// loadDefinition reads the file named by the first argument and fills the
// options it leaves out from the config defaults.
func (e *environment) loadDefinition(command *cli.Command) (any, error) {
	path := command.Args().First()
	if path == "" {
		return nil, errMissingFile
	}

	raw, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return e.config.ApplyDefaults(raw), nil
}
