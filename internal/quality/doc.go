// Package quality holds the static catalog mapping quality tiers to
// extraction format selectors and transcode rate-control settings, plus
// the codec/container table for supported output formats.
package quality
