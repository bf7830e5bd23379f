package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"reel/internal/api"
	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/packaging"
	"reel/internal/preflight"
	"reel/internal/services/ffmpeg"
	"reel/internal/services/ytdlp"
	"reel/internal/session"
)

// Daemon wires the session registry, process clients, ledger, and HTTP
// surface together and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *session.Registry
	store    *history.Store
	ytdlp    *ytdlp.CLI
	ffmpeg   *ffmpeg.CLI
	packager *packaging.Packager

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies. The history
// store may be nil when the ledger is disabled.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := strings.TrimSpace(cfg.Paths.LockFile)
	if lockPath == "" {
		lockPath = filepath.Join(cfg.Paths.LogDir, "reeld.lock")
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		registry: session.NewRegistry(cfg.Paths.WorkDir, cfg.GracePeriod(), logger),
		store:    store,
		ytdlp:    ytdlp.NewCLI(ytdlp.WithBinary(cfg.Tools.YtdlpBinary)),
		ffmpeg:   ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary)),
		packager: packaging.New(logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = server
	return d, nil
}

// Start acquires the instance lock, runs preflight checks, and brings up
// the HTTP surface. Failed preflight checks are logged but only missing
// required tools abort startup.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reel daemon instance is already running")
	}

	results := preflight.RunAll(ctx, d.cfg)
	for _, result := range results {
		if result.Passed {
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}
	if missing := deps.MissingRequired(deps.CheckBinaries(deps.For(d.cfg))); len(missing) > 0 {
		_ = d.lock.Unlock()
		return fmt.Errorf("required tools unavailable: %s", strings.Join(missing, ", "))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("reel daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.cfg.Paths.APIBind))
	return nil
}

// Stop shuts down the HTTP surface and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("reel daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) api.StatusResponse {
	statuses := deps.CheckBinaries(deps.For(d.cfg))
	dependencies := make([]api.DependencyStatus, len(statuses))
	for i, status := range statuses {
		dependencies[i] = api.DependencyStatus{
			Name:        status.Name,
			Command:     status.Command,
			Description: status.Description,
			Optional:    status.Optional,
			Available:   status.Available,
			Detail:      status.Detail,
		}
	}
	sessions := make([]api.SessionInfo, 0)
	for _, info := range d.registry.Snapshot() {
		sessions = append(sessions, api.SessionInfo{
			Key:       info.Key,
			ID:        info.ID,
			Kind:      info.Kind,
			State:     string(info.State),
			StartedAt: info.StartedAt,
		})
	}
	response := api.StatusResponse{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Sessions:     sessions,
		Dependencies: dependencies,
		LockFilePath: d.lockPath,
	}
	if d.store != nil {
		response.HistoryDBPath = d.store.Path()
	}
	return response
}

// Registry exposes the session registry, mainly for tests.
func (d *Daemon) Registry() *session.Registry {
	return d.registry
}
