// Package config loads, normalizes, and validates the TOML configuration for
// the reel daemon and CLI. Path fields are tilde-expanded and made absolute
// during Load so downstream packages never deal with relative paths.
package config
