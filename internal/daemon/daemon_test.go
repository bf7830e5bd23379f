package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
)

func stubTool(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func toolsAvailable(cfg *config.Config, t *testing.T) {
	dir := t.TempDir()
	cfg.Tools.YtdlpBinary = stubTool(t, dir, "yt-dlp")
	cfg.Tools.FFmpegBinary = stubTool(t, dir, "ffmpeg")
	cfg.Tools.FFprobeBinary = stubTool(t, dir, "ffprobe")
}

func TestStartAndStop(t *testing.T) {
	d := testDaemon(t, func(cfg *config.Config) {
		toolsAvailable(cfg, t)
	})
	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	status := d.Status(context.Background())
	if !status.Running {
		t.Fatal("status reports not running")
	}
	if status.PID != os.Getpid() {
		t.Fatalf("pid %d", status.PID)
	}
	d.Stop()
	if d.Status(context.Background()).Running {
		t.Fatal("status reports running after stop")
	}
}

func TestStartRejectsSecondInstance(t *testing.T) {
	lockDir := t.TempDir()
	lockFile := filepath.Join(lockDir, "reeld.lock")
	first := testDaemon(t, func(cfg *config.Config) {
		toolsAvailable(cfg, t)
		cfg.Paths.LockFile = lockFile
	})
	second := testDaemon(t, func(cfg *config.Config) {
		toolsAvailable(cfg, t)
		cfg.Paths.LockFile = lockFile
	})
	if err := first.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer first.Stop()
	err := second.Start(context.Background())
	if err == nil {
		second.Stop()
		t.Fatal("second instance acquired the lock")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStartFailsWhenToolsMissing(t *testing.T) {
	d := testDaemon(t, func(cfg *config.Config) {
		cfg.Tools.YtdlpBinary = "definitely-not-installed-anywhere"
	})
	err := d.Start(context.Background())
	if err == nil {
		d.Stop()
		t.Fatal("expected startup failure with missing tools")
	}
	if !strings.Contains(err.Error(), "required tools unavailable") {
		t.Fatalf("unexpected error: %v", err)
	}
}
