package remap

import (
	"errors"
	"strings"
	"testing"

	"reel/internal/media/ffprobe"
	"reel/internal/services"
)

func monoStreams(count int) []ffprobe.Stream {
	streams := make([]ffprobe.Stream, count)
	for i := range streams {
		streams[i] = ffprobe.Stream{Index: i + 1, Channels: 1, ChannelLayout: "mono"}
	}
	return streams
}

func mustTopology(t *testing.T, streams []ffprobe.Stream) ffprobe.Topology {
	t.Helper()
	topo, err := ffprobe.NewTopology(streams)
	if err != nil {
		t.Fatal(err)
	}
	return topo
}

func TestBuildFourMonoStreams(t *testing.T) {
	topo := mustTopology(t, monoStreams(4))
	plan, err := Build(topo, Mapping{Left: 0, Right: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Merged() {
		t.Fatal("multi-stream plan must merge")
	}
	if plan.StreamCount() != 4 {
		t.Fatalf("stream count %d, want 4", plan.StreamCount())
	}
	want := "[0:a:0][0:a:1][0:a:2][0:a:3]amerge=inputs=4,pan=stereo|c0=c0|c1=c3[aout]"
	if plan.FilterGraph != want {
		t.Fatalf("filter graph\n got %q\nwant %q", plan.FilterGraph, want)
	}
}

func TestBuildSingleStream(t *testing.T) {
	topo := mustTopology(t, []ffprobe.Stream{{Index: 1, Channels: 6, ChannelLayout: "5.1"}})
	plan, err := Build(topo, Mapping{Left: 2, Right: 3})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Merged() {
		t.Fatal("single-stream plan must not merge")
	}
	if strings.Contains(plan.FilterGraph, "amerge") {
		t.Fatalf("unexpected merge in %q", plan.FilterGraph)
	}
	want := "[0:a:0]pan=stereo|c0=c2|c1=c3[aout]"
	if plan.FilterGraph != want {
		t.Fatalf("filter graph %q, want %q", plan.FilterGraph, want)
	}
}

func TestBuildRejectsOutOfRangeIndices(t *testing.T) {
	topo := mustTopology(t, monoStreams(2))
	cases := []Mapping{
		{Left: 2, Right: 0},
		{Left: 0, Right: 2},
		{Left: -1, Right: 0},
		{Left: 0, Right: 99},
	}
	for _, mapping := range cases {
		if _, err := Build(topo, mapping); !errors.Is(err, services.ErrChannelIndexOutOfRange) {
			t.Fatalf("mapping %+v: expected out-of-range, got %v", mapping, err)
		}
	}
}

func TestBuildAllowsDuplicateIndex(t *testing.T) {
	// Mapping the same source channel to both ears is legitimate.
	topo := mustTopology(t, monoStreams(3))
	plan, err := Build(topo, Mapping{Left: 1, Right: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plan.FilterGraph, "c0=c1|c1=c1") {
		t.Fatalf("filter graph %q", plan.FilterGraph)
	}
}
