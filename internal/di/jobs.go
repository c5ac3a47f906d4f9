package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/config"
	"github.com/aristath/fleetcost/internal/scheduler"
)

// RegisterJobs creates the background jobs and registers the enabled ones
// with the scheduler. The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(log)
	container.Scheduler = sched

	jobs := &JobInstances{
		CatalogRefresh:      scheduler.NewCatalogRefreshJob(container.TCOService),
		CheckDatabases:      scheduler.NewCheckDatabasesJob(container.Databases()...),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(container.Databases()...),
	}
	jobs.CatalogRefresh.SetLogger(log.With().Str("job", "catalog_refresh").Logger())
	jobs.CheckDatabases.SetLogger(log.With().Str("job", "check_databases").Logger())
	jobs.CheckWALCheckpoints.SetLogger(log.With().Str("job", "check_wal_checkpoints").Logger())

	registrations := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.CatalogRefreshSchedule, jobs.CatalogRefresh},
		{cfg.MaintenanceSchedule, jobs.CheckDatabases},
		{cfg.MaintenanceSchedule, jobs.CheckWALCheckpoints},
	}
	for _, reg := range registrations {
		if !config.ScheduleEnabled(reg.schedule) {
			log.Info().Str("job", reg.job.Name()).Msg("Job disabled")
			continue
		}
		if err := sched.AddJob(reg.schedule, reg.job); err != nil {
			return nil, fmt.Errorf("failed to register job %s: %w", reg.job.Name(), err)
		}
	}

	return jobs, nil
}
