// Package remap plans stereo channel remaps against a probed audio
// topology. A plan is validated against the aggregate channel range
// before any filter expression is rendered, so an out-of-range request
// can never reach the transcoder.
package remap
