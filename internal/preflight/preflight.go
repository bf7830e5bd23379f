package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"reel/internal/config"
	"reel/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every startup check: directory access, free space in
// the work directory, and external tool availability.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFreeSpace(cfg.Paths.WorkDir, cfg.Download.MinFreeSpaceGiB),
	}
	for _, status := range deps.CheckBinaries(deps.For(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}
	return results
}

// Failed lists the names of checks that did not pass.
func Failed(results []Result) []string {
	var failed []string
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result.Name)
		}
	}
	return failed
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least
// minGiB available. A zero minimum disables the check.
func CheckFreeSpace(path string, minGiB int) Result {
	const name = "Free space"
	if minGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "check disabled"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeBytes := stat.Bavail * uint64(stat.Bsize)
	minBytes := uint64(minGiB) << 30
	if freeBytes < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf(
			"%s has %.1f GiB free, need %d GiB", path, float64(freeBytes)/(1<<30), minGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf(
		"%s has %.1f GiB free", path, float64(freeBytes)/(1<<30))}
}
