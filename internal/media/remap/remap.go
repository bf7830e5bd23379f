package remap

import (
	"fmt"
	"strings"

	"reel/internal/media/ffprobe"
	"reel/internal/services"
)

// Mapping names the two aggregate channel indices that become the stereo
// output's left and right channels.
type Mapping struct {
	Left  int
	Right int
}

// Plan is a validated filter-graph plan for remapping a container's audio
// into a stereo track. Building a Plan never spawns anything; it only
// proves the mapping is expressible against the probed topology.
type Plan struct {
	Mapping     Mapping
	FilterGraph string
	OutputLabel string
	merged      bool
	streamCount int
}

// Merged reports whether the plan merges multiple input streams before
// mapping.
func (p Plan) Merged() bool {
	return p.merged
}

// StreamCount is the number of input audio streams the plan consumes.
func (p Plan) StreamCount() int {
	return p.streamCount
}

// Build validates the mapping against the topology and renders the
// filter graph. Both indices must fall inside the aggregate channel
// range; otherwise the mapping is rejected before any process is
// spawned.
//
// Multi-stream topologies are first merged in stream order so the merged
// channel order equals the aggregate index order; the channel map then
// selects aggregate indices directly. Single-stream topologies map in
// place.
func Build(topology ffprobe.Topology, mapping Mapping) (Plan, error) {
	total := topology.AggregateChannelCount()
	if total == 0 {
		return Plan{}, services.Wrap(services.ErrAudioTopologyEmpty, "remap", "build",
			"topology has no channels", nil)
	}
	for _, index := range []int{mapping.Left, mapping.Right} {
		if index < 0 || index >= total {
			return Plan{}, services.Wrap(services.ErrChannelIndexOutOfRange, "remap", "build",
				fmt.Sprintf("channel %d outside aggregate range 0..%d", index, total-1), nil)
		}
	}

	pan := fmt.Sprintf("pan=stereo|c0=c%d|c1=c%d", mapping.Left, mapping.Right)
	if !topology.MultiStream() {
		return Plan{
			Mapping:     mapping,
			FilterGraph: fmt.Sprintf("[0:a:0]%s[aout]", pan),
			OutputLabel: "[aout]",
			streamCount: 1,
		}, nil
	}

	count := len(topology.Streams)
	var graph strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&graph, "[0:a:%d]", i)
	}
	fmt.Fprintf(&graph, "amerge=inputs=%d,%s[aout]", count, pan)
	return Plan{
		Mapping:     mapping,
		FilterGraph: graph.String(),
		OutputLabel: "[aout]",
		merged:      true,
		streamCount: count,
	}, nil
}
