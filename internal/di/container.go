// Package di provides dependency injection configuration for the catalog core.
package di

import (
	"github.com/samber/do/v2"

	"github.com/vidcatapp/vidcat-core/internal/backup"
	"github.com/vidcatapp/vidcat-core/internal/cache"
	"github.com/vidcatapp/vidcat-core/internal/config"
	"github.com/vidcatapp/vidcat-core/internal/di/providers"
	"github.com/vidcatapp/vidcat-core/internal/logger"
	"github.com/vidcatapp/vidcat-core/internal/service"
	"github.com/vidcatapp/vidcat-core/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Store layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideStatsCache)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideOrganizeService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideStatsService)

	// Backup
	do.Provide(injector, providers.ProvideBackupManager)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*cache.StatsCache](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.OrganizeService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	_ = do.MustInvoke[*backup.Manager](injector)

	return nil
}
