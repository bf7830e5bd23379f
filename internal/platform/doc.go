// Package platform classifies request URLs and carries per-platform
// download strategies: extra extractor arguments, auth failure
// patterns, and whether a single request may legitimately yield
// multiple output files.
package platform
