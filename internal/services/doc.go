// Package services defines shared utilities consumed by the process managers
// and the API layer.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate external
//     tool failures into the orchestrator's fixed taxonomy.
//   - Context helpers that stamp session keys and correlation identifiers for
//     logging and tracing.
//
// Use these helpers when wiring new process logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
