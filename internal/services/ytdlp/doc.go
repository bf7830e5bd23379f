// Package ytdlp wraps the yt-dlp extraction tool: pure argument assembly
// from quality and platform strategy, spawning through a tracked session,
// and translation of tool failures into the service error taxonomy.
package ytdlp
