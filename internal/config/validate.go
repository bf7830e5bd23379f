package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir is required")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind is required")
	}
	if c.Tools.YtdlpBinary == "" {
		return errors.New("tools.ytdlp_binary is required")
	}
	if c.Tools.FFmpegBinary == "" {
		return errors.New("tools.ffmpeg_binary is required")
	}
	if c.Tools.FFprobeBinary == "" {
		return errors.New("tools.ffprobe_binary is required")
	}
	if c.Tools.ToolTimeout < 0 {
		return fmt.Errorf("tools.tool_timeout must not be negative, got %d", c.Tools.ToolTimeout)
	}
	if c.Download.GracePeriod <= 0 {
		return fmt.Errorf("download.grace_period must be positive, got %d", c.Download.GracePeriod)
	}
	if c.Download.WatchdogInterval <= 0 {
		return fmt.Errorf("download.watchdog_interval must be positive, got %d", c.Download.WatchdogInterval)
	}
	if c.Download.MinFreeSpaceGiB < 0 {
		return fmt.Errorf("download.min_free_space_gib must not be negative, got %d", c.Download.MinFreeSpaceGiB)
	}
	if c.History.KeepEntries < 0 {
		return fmt.Errorf("history.keep_entries must not be negative, got %d", c.History.KeepEntries)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
