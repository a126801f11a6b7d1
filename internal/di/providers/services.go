package providers

import (
	"github.com/samber/do/v2"

	"github.com/vidcatapp/vidcat-core/internal/cache"
	"github.com/vidcatapp/vidcat-core/internal/logger"
	"github.com/vidcatapp/vidcat-core/internal/service"
	"github.com/vidcatapp/vidcat-core/internal/validation"
)

// ProvideCatalogService provides the activity and video catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	statsCache := do.MustInvoke[*cache.StatsCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, v, statsCache, log.Logger), nil
}

// ProvideOrganizeService provides the tag, collection, and taxonomy service.
func ProvideOrganizeService(i do.Injector) (*service.OrganizeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	statsCache := do.MustInvoke[*cache.StatsCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOrganizeService(storeHandle.Store, v, statsCache, log.Logger), nil
}

// ProvideSearchService provides the video search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the catalog statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	statsCache := do.MustInvoke[*cache.StatsCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, statsCache, log.Logger), nil
}
