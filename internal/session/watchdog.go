package session

import (
	"context"
	"time"

	"reel/internal/logging"
)

// Watch polls the alive probe on the given interval until the session for
// key finishes or ctx ends. When the probe reports false the client is
// gone, so the session is cancelled and cleaned up proactively. This
// covers transports that disappear without a clean close event.
func (r *Registry) Watch(ctx context.Context, key string, interval time.Duration, alive func() bool) {
	sess, ok := r.Lookup(key)
	if !ok {
		return
	}
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-sess.Done():
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if alive() {
				continue
			}
			r.logger.Info("client gone, reaping session",
				logging.String(logging.FieldSessionKey, key))
			r.Cancel(key)
			r.Cleanup(key)
			return
		}
	}
}
