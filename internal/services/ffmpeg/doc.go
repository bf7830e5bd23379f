// Package ffmpeg wraps the ffmpeg transcoder: codec/container and rate
// control argument assembly, optional channel-remap filter graphs, and
// translation of tool failures into the service error taxonomy.
package ffmpeg
