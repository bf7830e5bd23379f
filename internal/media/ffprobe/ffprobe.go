package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"reel/internal/services"
)

// commandContext is swapped in tests to avoid spawning a real ffprobe.
var commandContext = exec.CommandContext

// Stream describes one audio stream in the media container.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channel_layout"`
	SampleRate    string `json:"sample_rate"`
	BitRate       string `json:"bit_rate"`
}

// Topology is the normalized audio-stream layout of a container. Streams
// keep container order; the aggregate index space flattens every channel
// of every stream into one 0..N-1 numbering so a four-mono-stream
// container and a single four-channel stream are addressed identically.
type Topology struct {
	Streams []Stream
	offsets []int
	total   int
}

// Probe runs ffprobe against path requesting audio streams only and
// parses the result. Zero audio streams is an error: nothing downstream
// can remap a silent container.
func Probe(ctx context.Context, binary, path string) (Topology, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Topology{}, services.Wrap(services.ErrValidation, "ffprobe", "probe", "empty input path", nil)
	}

	cmd := commandContext(ctx, binary,
		"-v", "error",
		"-hide_banner",
		"-select_streams", "a",
		"-show_streams",
		"-of", "json",
		"--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(string(exitErr.Stderr))
			return Topology{}, services.Wrap(services.ErrProcessAbnormalExit, "ffprobe", "probe", detail, err)
		}
		// The process never ran: missing binary, permission, bad path.
		return Topology{}, services.Wrap(services.ErrProcessSpawnFailure, "ffprobe", "probe",
			fmt.Sprintf("launch %s", binary), err)
	}
	return ParseTopology(output)
}

// ParseTopology decodes ffprobe JSON into a Topology.
func ParseTopology(data []byte) (Topology, error) {
	var payload struct {
		Streams []Stream `json:"streams"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Topology{}, services.Wrap(services.ErrProcessAbnormalExit, "ffprobe", "parse",
			"malformed probe output", err)
	}
	if len(payload.Streams) == 0 {
		return Topology{}, services.Wrap(services.ErrAudioTopologyEmpty, "ffprobe", "parse",
			"no audio streams found", nil)
	}
	return newTopology(payload.Streams)
}

// NewTopology builds a Topology directly from stream descriptors.
func NewTopology(streams []Stream) (Topology, error) {
	if len(streams) == 0 {
		return Topology{}, services.Wrap(services.ErrAudioTopologyEmpty, "ffprobe", "topology",
			"no audio streams found", nil)
	}
	return newTopology(streams)
}

func newTopology(streams []Stream) (Topology, error) {
	offsets := make([]int, len(streams))
	total := 0
	for i, stream := range streams {
		if stream.Channels <= 0 {
			return Topology{}, services.Wrap(services.ErrAudioTopologyEmpty, "ffprobe", "topology",
				fmt.Sprintf("stream %d reports %d channels", stream.Index, stream.Channels), nil)
		}
		offsets[i] = total
		total += stream.Channels
	}
	return Topology{Streams: streams, offsets: offsets, total: total}, nil
}

// AggregateChannelCount is the total channel count across all streams.
func (t Topology) AggregateChannelCount() int {
	return t.total
}

// MultiStream reports whether the container splits audio across more than
// one stream.
func (t Topology) MultiStream() bool {
	return len(t.Streams) > 1
}

// Locate maps an aggregate channel index to its owning stream (position in
// Streams, not the container stream index) and the channel offset inside
// that stream.
func (t Topology) Locate(global int) (streamPos, offset int, err error) {
	if global < 0 || global >= t.total {
		return 0, 0, services.Wrap(services.ErrChannelIndexOutOfRange, "ffprobe", "locate",
			fmt.Sprintf("channel %d outside aggregate range 0..%d", global, t.total-1), nil)
	}
	for i := len(t.offsets) - 1; i >= 0; i-- {
		if global >= t.offsets[i] {
			return i, global - t.offsets[i], nil
		}
	}
	return 0, 0, services.Wrap(services.ErrChannelIndexOutOfRange, "ffprobe", "locate",
		fmt.Sprintf("channel %d unmapped", global), nil)
}
