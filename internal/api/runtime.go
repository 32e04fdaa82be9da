package api

import (
	"time"

	"github.com/tendline/tendline/internal/config"
	"github.com/tendline/tendline/internal/infrastructure"
	"github.com/tendline/tendline/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Engine     config.EngineConfig
	LockTTL    time.Duration
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Locks:     infra.Locks,
		},
		Pagination: cfg.API.Pagination,
		Engine:     cfg.Engine,
		LockTTL:    cfg.Locks.TTLDuration(),
	}
}
