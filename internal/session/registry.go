package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"reel/internal/logging"
	"reel/internal/services"
)

// State tracks a session through its lifecycle. Every terminal state
// converges on exactly one cleanup invocation.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Process is the handle the registry needs over a live external process.
// *os.Process satisfies it.
type Process interface {
	Signal(sig os.Signal) error
	Kill() error
}

// Session tracks one in-flight request: its external process, its scratch
// directory, and its lifecycle state.
type Session struct {
	Key       string
	ID        string
	Kind      string
	TempDir   string
	StartedAt time.Time

	registry *Registry

	mu        sync.Mutex
	state     State
	proc      Process
	cancelled bool

	done        chan struct{}
	cleanupOnce sync.Once
}

// Info is an immutable snapshot of a session for status reporting.
type Info struct {
	Key       string
	ID        string
	Kind      string
	State     State
	StartedAt time.Time
}

// Registry is the concurrency-safe map of live sessions. Register is an
// atomic insert-if-absent so a duplicate key can never orphan a tracked
// process.
type Registry struct {
	workDir string
	grace   time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds a registry that allocates scratch directories under
// workDir and escalates cancellation after the grace window.
func NewRegistry(workDir string, grace time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	if grace <= 0 {
		grace = 2 * time.Second
	}
	return &Registry{
		workDir:  workDir,
		grace:    grace,
		logger:   logger.With(logging.String(logging.FieldComponent, "session")),
		sessions: make(map[string]*Session),
	}
}

// Register admits a new session for key, creating its temp directory.
// A live session under the same key makes it fail with a conflict and
// leaves the existing session untouched.
func (r *Registry) Register(key, kind string) (*Session, error) {
	r.mu.Lock()
	if _, exists := r.sessions[key]; exists {
		r.mu.Unlock()
		return nil, services.Wrap(services.ErrConflict, "session", "register",
			fmt.Sprintf("request already in flight for %q", key), nil)
	}
	sess := &Session{
		Key:       key,
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now(),
		registry:  r,
		state:     StateQueued,
		done:      make(chan struct{}),
	}
	sess.TempDir = filepath.Join(r.workDir, sess.ID)
	r.sessions[key] = sess
	r.mu.Unlock()

	if err := os.MkdirAll(sess.TempDir, 0o755); err != nil {
		r.remove(key)
		return nil, services.Wrap(services.ErrProcessSpawnFailure, "session", "register",
			fmt.Sprintf("create scratch directory %s", sess.TempDir), err)
	}
	r.logger.Debug("session registered",
		logging.String(logging.FieldSessionKey, key),
		logging.String("session_id", sess.ID),
		logging.String("kind", kind))
	return sess, nil
}

// Lookup returns the live session for key, if any.
func (r *Registry) Lookup(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[key]
	return sess, ok
}

// Cancel requests graceful termination of the session for key. It returns
// false when no live session exists. The process receives SIGTERM
// immediately and SIGKILL if it is still running when the grace window
// elapses.
func (r *Registry) Cancel(key string) bool {
	sess, ok := r.Lookup(key)
	if !ok {
		return false
	}
	sess.cancel(r.grace)
	return true
}

// Cleanup tears down the session for key. Safe to call for unknown keys
// and safe to call repeatedly.
func (r *Registry) Cleanup(key string) {
	if sess, ok := r.Lookup(key); ok {
		sess.Cleanup()
	}
}

// Snapshot lists all live sessions ordered by start time.
func (r *Registry) Snapshot() []Info {
	r.mu.Lock()
	infos := make([]Info, 0, len(r.sessions))
	for _, sess := range r.sessions {
		infos = append(infos, sess.info())
	}
	r.mu.Unlock()
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].StartedAt.Equal(infos[j].StartedAt) {
			return infos[i].Key < infos[j].Key
		}
		return infos[i].StartedAt.Before(infos[j].StartedAt)
	})
	return infos
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) remove(key string) {
	r.mu.Lock()
	delete(r.sessions, key)
	r.mu.Unlock()
}

// Attach binds the spawned process handle and moves the session to
// running. Attaching to a cancelled session signals the process right
// away so a cancel that raced the spawn still lands.
func (s *Session) Attach(proc Process) {
	s.mu.Lock()
	s.proc = proc
	if s.state == StateQueued {
		s.state = StateRunning
	}
	cancelled := s.cancelled
	s.mu.Unlock()
	if cancelled && proc != nil {
		s.terminate(proc, s.registry.grace)
	}
}

// Finish records the terminal state for the session and releases anyone
// waiting on Done. A cancelled session stays cancelled regardless of the
// process outcome.
func (s *Session) Finish(err error) {
	s.mu.Lock()
	if !s.state.Terminal() {
		switch {
		case s.cancelled:
			s.state = StateCancelled
		case err != nil:
			s.state = StateFailed
		default:
			s.state = StateCompleted
		}
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancelled reports whether cancellation was requested.
func (s *Session) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Session) cancel(grace time.Duration) {
	s.mu.Lock()
	if s.cancelled || s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	proc := s.proc
	s.mu.Unlock()

	s.registry.logger.Info("cancelling session",
		logging.String(logging.FieldSessionKey, s.Key),
		logging.String("session_id", s.ID))

	if proc == nil {
		// No process yet; Attach will signal if a spawn races in.
		return
	}
	s.terminate(proc, grace)
}

func (s *Session) terminate(proc Process, grace time.Duration) {
	_ = proc.Signal(syscall.SIGTERM)
	go func() {
		select {
		case <-s.done:
		case <-time.After(grace):
			s.registry.logger.Warn("grace window elapsed, killing process",
				logging.String(logging.FieldSessionKey, s.Key))
			_ = proc.Kill()
		}
	}()
}

// Cleanup removes the scratch directory and deregisters the session.
// Only the first call has effect.
func (s *Session) Cleanup() {
	s.cleanupOnce.Do(func() {
		if s.TempDir != "" {
			if err := os.RemoveAll(s.TempDir); err != nil {
				s.registry.logger.Warn("scratch directory removal failed",
					logging.String(logging.FieldSessionKey, s.Key),
					logging.Error(err))
			}
		}
		s.registry.remove(s.Key)
		s.registry.logger.Debug("session cleaned up",
			logging.String(logging.FieldSessionKey, s.Key),
			logging.String("session_id", s.ID))
	})
}

func (s *Session) info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		Key:       s.Key,
		ID:        s.ID,
		Kind:      s.Kind,
		State:     s.state,
		StartedAt: s.StartedAt,
	}
}
