package config

const (
	defaultWorkDir          = "~/.local/share/reel/work"
	defaultLogDir           = "~/.local/share/reel/logs"
	defaultLockFile         = "~/.local/share/reel/reeld.lock"
	defaultAPIBind          = "127.0.0.1:7733"
	defaultYtdlpBinary      = "yt-dlp"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultToolTimeout      = 3600
	defaultGracePeriod      = 2
	defaultWatchdogInterval = 1
	defaultMinFreeSpaceGiB  = 1
	defaultHistoryKeep      = 500
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
			LockFile: defaultLockFile,
		},
		Tools: Tools{
			YtdlpBinary:   defaultYtdlpBinary,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			ToolTimeout:   defaultToolTimeout,
		},
		Download: Download{
			GracePeriod:      defaultGracePeriod,
			WatchdogInterval: defaultWatchdogInterval,
			MinFreeSpaceGiB:  defaultMinFreeSpaceGiB,
		},
		History: History{
			Enabled:     true,
			KeepEntries: defaultHistoryKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
