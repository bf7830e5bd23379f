package quality

import (
	"fmt"
	"strings"

	"reel/internal/services"
)

// Format describes how a named output container maps onto encoder flags.
type Format struct {
	Name       string
	Extension  string
	VideoCodec string
	AudioCodec string
	AudioOnly  bool
	ExtraArgs  []string
}

var formats = map[string]Format{
	"mp4": {
		Name:       "mp4",
		Extension:  ".mp4",
		VideoCodec: "libx264",
		AudioCodec: "aac",
		ExtraArgs:  []string{"-movflags", "+faststart"},
	},
	"webm": {
		Name:       "webm",
		Extension:  ".webm",
		VideoCodec: "libvpx-vp9",
		AudioCodec: "libopus",
	},
	"mov": {
		Name:       "mov",
		Extension:  ".mov",
		VideoCodec: "libx264",
		AudioCodec: "aac",
	},
	"mkv": {
		Name:       "mkv",
		Extension:  ".mkv",
		VideoCodec: "libx264",
		AudioCodec: "aac",
	},
	"mp3": {
		Name:       "mp3",
		Extension:  ".mp3",
		AudioCodec: "libmp3lame",
		AudioOnly:  true,
	},
	"m4a": {
		Name:       "m4a",
		Extension:  ".m4a",
		AudioCodec: "aac",
		AudioOnly:  true,
	},
	"opus": {
		Name:       "opus",
		Extension:  ".opus",
		AudioCodec: "libopus",
		AudioOnly:  true,
	},
	"flac": {
		Name:       "flac",
		Extension:  ".flac",
		AudioCodec: "flac",
		AudioOnly:  true,
	},
	"wav": {
		Name:       "wav",
		Extension:  ".wav",
		AudioCodec: "pcm_s16le",
		AudioOnly:  true,
	},
}

// LookupFormat resolves a requested output format name.
func LookupFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, ".")))
	format, ok := formats[key]
	if !ok {
		return Format{}, services.Wrap(services.ErrValidation, "quality", "format",
			fmt.Sprintf("unknown output format %q", name), nil)
	}
	return format, nil
}

// Formats lists the supported output format names, video containers first.
func Formats() []string {
	return []string{"mp4", "webm", "mov", "mkv", "mp3", "m4a", "opus", "flac", "wav"}
}
