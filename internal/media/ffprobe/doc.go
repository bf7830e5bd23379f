// Package ffprobe probes the audio topology of a media container.
//
// It asks ffprobe for audio streams only and normalizes the result into a
// Topology whose aggregate index space flattens every channel of every
// stream into one 0..N-1 numbering. Containers that split multi-channel
// audio across several mono streams and containers with one multi-channel
// stream become addressable through the same index space.
package ffprobe
