// Package di wires databases, services and jobs into one container.
package di

import (
	"github.com/aristath/fleetcost/internal/database"
	"github.com/aristath/fleetcost/internal/modules/catalog"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
	"github.com/aristath/fleetcost/internal/modules/sensitivity"
	"github.com/aristath/fleetcost/internal/modules/simulation"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire and passed to the server.
type Container struct {
	// Databases
	CatalogDB *database.DB

	// Repositories
	VehicleRepo *catalog.Repository

	// Services
	Catalog           *catalog.Catalog
	Scenarios         *scenarios.Registry
	Aggregator        *tco.Aggregator
	TCOService        *tco.Service
	SimulationEngine  *simulation.Engine
	SensitivityEngine *sensitivity.Engine

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// Databases returns every open database
func (c *Container) Databases() []*database.DB {
	if c.CatalogDB == nil {
		return nil
	}
	return []*database.DB{c.CatalogDB}
}

// Close releases every database connection
func (c *Container) Close() error {
	var firstErr error
	for _, db := range c.Databases() {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// JobInstances holds references to the registered jobs
type JobInstances struct {
	CatalogRefresh      *scheduler.CatalogRefreshJob
	CheckDatabases      *scheduler.CheckDatabasesJob
	CheckWALCheckpoints *scheduler.CheckWALCheckpointsJob
}
