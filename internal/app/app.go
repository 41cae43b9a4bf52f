package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/opmix/internal/config"
	"github.com/vk/opmix/internal/ctxlog"
	"github.com/vk/opmix/internal/plugin"
	"github.com/vk/opmix/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	config     *config.Model
	appConfig  *Config
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// composed App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, factories ...plugin.Factory) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the composition manifest into the format-agnostic model first.
	cfgModel, err := loader.Load(ctx, appConfig.ManifestPath)
	if err != nil {
		// A failure to load the manifest is a fatal startup error.
		panic(fmt.Errorf("failed to load manifest: %w", err))
	}
	logger.Debug("Manifest loaded and translated into unified model.")

	// Build the registry from the compiled-in plugin factories, under
	// control of the manifest.
	reg := registry.New()
	if len(factories) == 0 {
		factories = corePlugins
	}
	registered := 0
	for _, f := range factories {
		name := f.Name()
		if !cfgModel.PluginEnabled(name) {
			logger.Debug("Plugin disabled by manifest.", "plugin", name)
			continue
		}

		group, err := f.Group(ctx, cfgModel.OptionsFor(name))
		if err != nil {
			// A factory rejecting its own options is a configuration
			// error and fatal at startup.
			panic(fmt.Errorf("plugin %q: %w", name, err))
		}

		if err := reg.AddGroup(group); err != nil {
			// A malformed contribution is a programmer error, so we panic.
			panic(fmt.Errorf("plugin %q: %w", name, err))
		}
		registered++
	}
	logger.Debug("Plugin groups registered.", "count", registered)

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		config:    cfgModel,
		appConfig: appConfig,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
