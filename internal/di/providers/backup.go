package providers

import (
	"github.com/samber/do/v2"

	"github.com/vidcatapp/vidcat-core/internal/backup"
	"github.com/vidcatapp/vidcat-core/internal/config"
	"github.com/vidcatapp/vidcat-core/internal/logger"
)

// ProvideBackupManager provides the snapshot backup manager.
func ProvideBackupManager(i do.Injector) (*backup.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return backup.NewManager(storeHandle.Store, cfg.Backup.Path, cfg.Backup.MaxSnapshots, log.Logger), nil
}
