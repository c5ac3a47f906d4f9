package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/config"
	"github.com/aristath/fleetcost/internal/database"
	"github.com/aristath/fleetcost/internal/modules/catalog"
)

// InitializeDatabases opens catalog.db, applies its schema and seeds the
// built-in vehicles into an empty table
func InitializeDatabases(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	catalogDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "catalog.db"),
		Profile: database.ProfileStandard,
		Name:    "catalog",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog database: %w", err)
	}
	container.CatalogDB = catalogDB

	if err := catalogDB.Migrate(); err != nil {
		catalogDB.Close()
		return nil, fmt.Errorf("failed to apply schema to %s: %w", catalogDB.Name(), err)
	}

	container.VehicleRepo = catalog.NewRepository(catalogDB.Conn(), log)
	if _, err := container.VehicleRepo.Seed(ctx, catalog.Builtin()); err != nil {
		catalogDB.Close()
		return nil, err
	}

	log.Info().Msg("Catalog database initialized")

	return container, nil
}
