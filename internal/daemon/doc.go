// Package daemon hosts the orchestrator: it owns the session registry,
// the extraction and transcode clients, the request ledger, and the HTTP
// surface the CLI talks to, and it enforces single-instance execution
// through a file lock.
package daemon
