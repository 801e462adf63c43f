package providers

import (
	"github.com/samber/do/v2"

	"github.com/CyberBrown/solampio-web-sub002/internal/config"
	"github.com/CyberBrown/solampio-web-sub002/internal/logger"
	"github.com/CyberBrown/solampio-web-sub002/internal/store/sqlite"
)

// StoreHandle wraps the mapping store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite mapping store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Store.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Mapping store initialized", "path", cfg.Store.Path)

	return &StoreHandle{Store: db}, nil
}
