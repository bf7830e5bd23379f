// Package history keeps a bounded SQLite ledger of finished requests:
// what was asked for, which platform served it, and how the session
// ended. Produced media is never stored.
package history
