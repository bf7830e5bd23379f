// Package session owns the lifecycle of in-flight requests: atomic
// registration keyed by request URL, two-phase process cancellation,
// idempotent scratch-directory cleanup, and a liveness watchdog that
// reaps sessions whose clients disappeared.
package session
