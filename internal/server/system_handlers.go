package server

import (
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/fleetcost/internal/database"
	"github.com/aristath/fleetcost/internal/di"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/internal/scheduler"
	"github.com/aristath/fleetcost/pkg/render"
)

// SystemHandlers serves process, database and job status
type SystemHandlers struct {
	log       zerolog.Logger
	container *di.Container
	jobs      map[string]scheduler.Job
	started   time.Time
}

// SystemStatusResponse is the payload of GET /api/system/status
type SystemStatusResponse struct {
	Status         string         `json:"status"`
	UptimeSeconds  float64        `json:"uptime_seconds"`
	CPUPercent     float64        `json:"cpu_percent"`
	MemoryPercent  float64        `json:"memory_percent"`
	Goroutines     int            `json:"goroutines"`
	Vehicles       int            `json:"vehicles"`
	CatalogVersion uint64         `json:"catalog_version"`
	Scenarios      []string       `json:"scenarios"`
	Cache          tco.CacheStats `json:"cache"`
	LastChecked    string         `json:"last_checked"`
}

// DBInfo describes one database file
type DBInfo struct {
	Name  string          `json:"name"`
	Path  string          `json:"path"`
	Stats *database.Stats `json:"stats,omitempty"`
	Error string          `json:"error,omitempty"`
}

// DatabaseStatsResponse is the payload of GET /api/system/database/stats
type DatabaseStatsResponse struct {
	Databases   []DBInfo `json:"databases"`
	TotalSizeMB float64  `json:"total_size_mb"`
	LastChecked string   `json:"last_checked"`
}

// NewSystemHandlers creates system handlers. jobs may be nil.
func NewSystemHandlers(container *di.Container, jobs *di.JobInstances, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		container: container,
		jobs:      map[string]scheduler.Job{},
		started:   time.Now(),
	}
	if jobs != nil {
		for _, job := range []scheduler.Job{jobs.CatalogRefresh, jobs.CheckDatabases, jobs.CheckWALCheckpoints} {
			h.jobs[job.Name()] = job
		}
	}
	return h
}

// HandleSystemStatus returns process and engine status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.getSystemStats()
	svc := h.container.TCOService

	response := SystemStatusResponse{
		Status:         "healthy",
		UptimeSeconds:  time.Since(h.started).Seconds(),
		CPUPercent:     cpuPercent,
		MemoryPercent:  memPercent,
		Goroutines:     runtime.NumGoroutine(),
		Vehicles:       len(svc.Vehicles().List()),
		CatalogVersion: h.container.Catalog.Version(),
		Scenarios:      svc.Scenarios().IDs(),
		Cache:          svc.CacheStats(),
		LastChecked:    time.Now().Format(time.RFC3339),
	}

	h.write(w, r, http.StatusOK, response)
}

// HandleDatabaseStats returns database statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	response := DatabaseStatsResponse{
		Databases:   []DBInfo{},
		LastChecked: time.Now().Format(time.RFC3339),
	}

	for _, db := range h.container.Databases() {
		info := DBInfo{Name: db.Name(), Path: db.Path()}
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
			info.Error = err.Error()
		} else {
			info.Stats = stats
			response.TotalSizeMB += float64(stats.SizeBytes+stats.WALSizeBytes) / 1024 / 1024
		}
		response.Databases = append(response.Databases, info)
	}

	h.write(w, r, http.StatusOK, response)
}

// HandleJobsStatus lists the jobs that can be triggered manually
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	registered := 0
	if h.container.Scheduler != nil {
		registered = h.container.Scheduler.Len()
	}

	h.write(w, r, http.StatusOK, map[string]interface{}{
		"jobs":      names,
		"scheduled": registered,
	})
}

// HandleTriggerJob runs a job immediately
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.jobs[name]
	if !ok {
		h.write(w, r, http.StatusNotFound, map[string]string{"error": "unknown job " + name})
		return
	}

	if err := h.container.Scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		h.write(w, r, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.write(w, r, http.StatusOK, map[string]string{
		"status": "completed",
		"job":    name,
	})
}

// getSystemStats calculates CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// 100ms sample keeps the endpoint responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) write(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := render.Write(w, r, status, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
