package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CatalogReloader refreshes the vehicle catalog and reports whether it changed
type CatalogReloader interface {
	ReloadCatalog(ctx context.Context) (bool, error)
}

// CatalogRefreshJob reloads the vehicle catalog from its store. Cached cost
// aggregates are dropped by the reloader when anything changed.
type CatalogRefreshJob struct {
	log      zerolog.Logger
	reloader CatalogReloader
	timeout  time.Duration
}

// NewCatalogRefreshJob creates a new CatalogRefreshJob
func NewCatalogRefreshJob(reloader CatalogReloader) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		log:      zerolog.Nop(),
		reloader: reloader,
		timeout:  30 * time.Second,
	}
}

// SetLogger sets the logger for the job
func (j *CatalogRefreshJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CatalogRefreshJob) Name() string {
	return "catalog_refresh"
}

// Run executes the catalog refresh job
func (j *CatalogRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	changed, err := j.reloader.ReloadCatalog(ctx)
	if err != nil {
		return err
	}
	if changed {
		j.log.Info().Msg("Vehicle catalog changed, cost cache invalidated")
	} else {
		j.log.Debug().Msg("Vehicle catalog unchanged")
	}
	return nil
}
