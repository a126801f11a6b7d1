// Package providers contains dependency injection providers for the catalog core.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/vidcatapp/vidcat-core/internal/config"
	"github.com/vidcatapp/vidcat-core/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting catalog core",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"catalog_path", cfg.Catalog.BasePath,
	)

	return log, nil
}
