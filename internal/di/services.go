package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/config"
	"github.com/aristath/fleetcost/internal/modules/catalog"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
	"github.com/aristath/fleetcost/internal/modules/sensitivity"
	"github.com/aristath/fleetcost/internal/modules/simulation"
	"github.com/aristath/fleetcost/internal/modules/tco"
)

// InitializeServices builds the catalog, the cost engine and the analysis engines
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Catalog = catalog.New(container.VehicleRepo, log)
	if _, err := container.Catalog.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load vehicle catalog: %w", err)
	}

	container.Scenarios = scenarios.NewBuiltinRegistry()

	var opts []tco.Option
	if cfg.Engine.StrictOverrides {
		opts = append(opts, tco.WithStrictOverrides())
	}
	container.Aggregator = tco.NewAggregator(log, opts...)

	policies, err := cfg.Policies()
	if err != nil {
		return err
	}

	service, err := tco.NewService(container.Catalog, container.Scenarios, container.Aggregator, tco.ServiceConfig{
		Constants:       cfg.Constants(),
		Treatment:       cfg.Engine.ValueTreatment,
		Policies:        policies,
		DefaultScenario: cfg.Engine.DefaultScenario,
		DefaultMethod:   cfg.Engine.PurchaseMethod,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create tco service: %w", err)
	}
	container.TCOService = service

	container.SimulationEngine = simulation.NewEngine(container.Aggregator, simulation.Config{
		Workers:   cfg.Simulation.Workers,
		MaxTrials: cfg.Simulation.MaxTrials,
	}, log)
	container.SensitivityEngine = sensitivity.NewEngine(container.Aggregator, log)

	log.Info().
		Int("vehicles", len(container.Catalog.List())).
		Strs("scenarios", container.Scenarios.IDs()).
		Str("policy_preset", cfg.Engine.PolicyPreset).
		Msg("Services initialized")

	return nil
}
