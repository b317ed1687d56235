package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"ledgersynth/internal/config"
	"ledgersynth/internal/files"
	"ledgersynth/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	discovery *files.Discovery
	manager   *files.Manager
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// DatasetStats describes the artifacts present in the data directory
type DatasetStats struct {
	DataDir        string           `json:"data_dir"`
	LedgerPresent  bool             `json:"ledger_present"`
	TotalFiles     int              `json:"total_files"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	Files          []files.FileInfo `json:"files"`
}

// NewHealthService creates a new health service. paths may be nil when no
// data directory is configured; readiness then reports the data check as not ready.
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = contracts.Version
	}

	hs := &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger,
	}
	if paths != nil {
		hs.discovery = files.NewDiscovery(paths.BaseDir)
		hs.manager = files.NewManager(paths, logger)
	}

	logger.Info("HealthService initialized", slog.String("version", version))
	return hs
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"generator": {
				Status:  "ready",
				Message: "generator is in-process",
				Uptime:  time.Since(hs.startTime).String(),
			},
			"data": hs.checkDataHealth(),
		},
	}

	for _, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	hs.logger.DebugContext(ctx, "ReadinessCheck: completed", slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"data_format":  info.DataFormat,
		"api_version":  info.APIVersion,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// DatasetStats lists the generated artifacts in the data directory
func (hs *HealthService) DatasetStats(ctx context.Context) (DatasetStats, error) {
	if hs.discovery == nil {
		return DatasetStats{}, ErrNoDataDirectory
	}

	found, err := hs.discovery.FindDatasets(hs.paths.DataDir)
	if err != nil {
		return DatasetStats{DataDir: hs.paths.DataDir}, err
	}

	stats := DatasetStats{
		DataDir: hs.paths.DataDir,
		Files:   found,
	}
	for _, f := range found {
		stats.TotalFiles++
		stats.TotalSizeBytes += f.Size
		if f.Path == hs.paths.LedgerCSV {
			stats.LedgerPresent = true
		}
	}

	hs.logger.DebugContext(ctx, "DatasetStats: scanned data directory",
		slog.String("data_dir", stats.DataDir),
		slog.Int("files", stats.TotalFiles))
	return stats, nil
}

// checkDataHealth checks that the data directory exists and is a directory
func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "not_ready", Message: ErrNoDataDirectory.Error()}
	}

	info, err := os.Stat(hs.paths.DataDir)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Data directory not accessible: %s", hs.paths.DataDir),
		}
	}
	if !info.IsDir() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Data path is not a directory: %s", hs.paths.DataDir),
		}
	}

	msg := "Data directory is accessible"
	if hs.manager.FileExists(config.LedgerFileName) {
		msg = "Data directory is accessible; ledger present"
		if size, err := hs.manager.GetFileSize(config.LedgerFileName); err == nil {
			msg = fmt.Sprintf("%s (%d bytes)", msg, size)
		}
	}
	return ServiceHealth{Status: "ready", Message: msg}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	detail := map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
	}
	if stats, err := hs.DatasetStats(ctx); err == nil {
		detail["datasets"] = stats
	}
	return detail
}
