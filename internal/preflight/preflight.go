package preflight

import (
	"context"
	"path/filepath"

	"reelcut/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// MinimumFreeBytes is the free-space floor for the cache filesystem. Below
// this the narration cache and scene database are at risk of partial writes.
const MinimumFreeBytes = 256 << 20

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Socket directory", filepath.Dir(cfg.SocketPath())))
	results = append(results, CheckDiskSpace("Cache disk space", cfg.Paths.CacheDir, MinimumFreeBytes))

	if cfg.Narration.Enabled {
		results = append(results, CheckNarrationService(ctx, cfg.Narration.BaseURL, cfg.Narration.APIKey))
	}

	return results
}
