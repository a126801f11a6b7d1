package providers

import (
	"github.com/samber/do/v2"

	"github.com/vidcatapp/vidcat-core/internal/cache"
	"github.com/vidcatapp/vidcat-core/internal/config"
	"github.com/vidcatapp/vidcat-core/internal/logger"
	"github.com/vidcatapp/vidcat-core/internal/store/sqlite"
	"github.com/vidcatapp/vidcat-core/internal/validation"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := sqlite.Open(cfg.Catalog.BasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	st.SetBusyPolicy(cfg.Catalog.BusyTimeout, cfg.Catalog.BusyRetries)

	log.Info("Catalog store opened", "path", cfg.Catalog.BasePath)

	return &StoreHandle{Store: st}, nil
}

// ProvideStatsCache provides the shared aggregate query cache.
func ProvideStatsCache(i do.Injector) (*cache.StatsCache, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return cache.New(cache.WithTTL(cfg.Cache.StatsTTL)), nil
}

// ProvideValidator provides the struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
