package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if cfg.Tools.YtdlpBinary != "yt-dlp" {
		t.Fatalf("unexpected default ytdlp binary %q", cfg.Tools.YtdlpBinary)
	}
	if cfg.Download.GracePeriod != 2 {
		t.Fatalf("unexpected default grace period %d", cfg.Download.GracePeriod)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Fatalf("expected absolute work dir, got %q", cfg.Paths.WorkDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
work_dir = "` + filepath.Join(dir, "work") + `"
api_bind = "127.0.0.1:9999"

[tools]
ytdlp_binary = "/opt/yt-dlp"
tool_timeout = 120

[download]
grace_period = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("unexpected api bind %q", cfg.Paths.APIBind)
	}
	if cfg.Tools.YtdlpBinary != "/opt/yt-dlp" {
		t.Fatalf("unexpected ytdlp binary %q", cfg.Tools.YtdlpBinary)
	}
	if cfg.ToolTimeout().Seconds() != 120 {
		t.Fatalf("unexpected tool timeout %v", cfg.ToolTimeout())
	}
	if cfg.GracePeriod().Seconds() != 5 {
		t.Fatalf("unexpected grace period %v", cfg.GracePeriod())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero grace", func(c *config.Config) { c.Download.GracePeriod = 0 }, "grace_period"},
		{"zero watchdog", func(c *config.Config) { c.Download.WatchdogInterval = 0 }, "watchdog_interval"},
		{"missing ytdlp", func(c *config.Config) { c.Tools.YtdlpBinary = "" }, "ytdlp_binary"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatal("sample config missing [tools] section")
	}

	// The sample must load cleanly with defaults intact.
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7733" {
		t.Fatalf("unexpected api bind %q", cfg.Paths.APIBind)
	}
}
