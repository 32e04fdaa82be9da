// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, locks) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tendline/tendline/internal/config"
	"github.com/tendline/tendline/pkg/database"
	"github.com/tendline/tendline/pkg/lifecycle"
	"github.com/tendline/tendline/pkg/locks"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, and advisory locks. Locks is nil when the
// lock system is disabled in configuration.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Locks     locks.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	var lockSys locks.System
	if cfg.Locks.Enabled {
		lockSys = locks.New(&cfg.Locks, logger)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Locks:     lockSys,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Locks != nil {
		if err := i.Locks.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("locks start failed: %w", err)
		}
	}
	return nil
}
