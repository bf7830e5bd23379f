package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reel/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Work directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for %s: %s", dir, result.Detail)
	}

	result = CheckDirectoryAccess("Work directory", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckDirectoryAccess("Work directory", file)
	if result.Passed {
		t.Fatal("expected failure for non-directory path")
	}
}

func TestCheckFreeSpaceDisabled(t *testing.T) {
	result := CheckFreeSpace(t.TempDir(), 0)
	if !result.Passed {
		t.Fatalf("disabled check must pass: %s", result.Detail)
	}
}

func TestCheckFreeSpaceReportsUsage(t *testing.T) {
	result := CheckFreeSpace(t.TempDir(), 1)
	// Regardless of outcome the detail names the path and a figure.
	if result.Detail == "" {
		t.Fatal("expected a detail string")
	}
}

func TestRunAllCoversDirectoriesAndTools(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Download.MinFreeSpaceGiB = 0

	results := RunAll(context.Background(), &cfg)
	names := map[string]bool{}
	for _, result := range results {
		names[result.Name] = true
	}
	for _, want := range []string{"Work directory", "Log directory", "Free space", "yt-dlp", "FFmpeg", "FFprobe"} {
		if !names[want] {
			t.Fatalf("check %q missing from %v", want, names)
		}
	}
}

func TestFailed(t *testing.T) {
	results := []Result{
		{Name: "ok", Passed: true},
		{Name: "bad", Passed: false},
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0] != "bad" {
		t.Fatalf("failed = %v", failed)
	}
}
