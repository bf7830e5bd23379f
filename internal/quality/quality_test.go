package quality

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"reel/internal/services"
)

func TestLookupKnownTiers(t *testing.T) {
	for _, tier := range Tiers() {
		spec, err := Lookup(string(tier))
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tier, err)
		}
		if spec.Tier != tier {
			t.Fatalf("Lookup(%q) returned tier %q", tier, spec.Tier)
		}
		if spec.FormatSelector == "" {
			t.Fatalf("tier %q has empty format selector", tier)
		}
	}
}

func TestLookupDefaultsToBest(t *testing.T) {
	spec, err := Lookup("")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Tier != TierBest {
		t.Fatalf("empty tier resolved to %q, want best", spec.Tier)
	}
}

func TestLookupUnknownTier(t *testing.T) {
	_, err := Lookup("4320p-imax")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectorsNeverExceedCeiling(t *testing.T) {
	for _, tier := range Tiers() {
		spec, _ := Lookup(string(tier))
		if spec.HeightCeiling == 0 {
			continue
		}
		ceiling := fmt.Sprintf("height<=%d", spec.HeightCeiling)
		clauses := strings.Split(spec.FormatSelector, "/")
		// Every clause except the terminal catch-all must carry the ceiling.
		for _, clause := range clauses[:len(clauses)-1] {
			if !strings.Contains(clause, ceiling) {
				t.Fatalf("tier %q clause %q missing ceiling %q", tier, clause, ceiling)
			}
		}
		if clauses[len(clauses)-1] != "best" {
			t.Fatalf("tier %q fallback chain must end with a catch-all, got %q",
				tier, clauses[len(clauses)-1])
		}
	}
}

func TestCeilingsStrictlyDescend(t *testing.T) {
	prev := 1 << 30
	for _, tier := range []Tier{TierHigh, TierMedium, TierLow} {
		spec, _ := Lookup(string(tier))
		if spec.HeightCeiling >= prev {
			t.Fatalf("tier %q ceiling %d does not descend below %d",
				tier, spec.HeightCeiling, prev)
		}
		prev = spec.HeightCeiling
	}
}

func TestAudioTierIsAudioOnly(t *testing.T) {
	spec, _ := Lookup("audio")
	if !spec.AudioOnly {
		t.Fatal("audio tier must be marked audio only")
	}
	if strings.Contains(spec.FormatSelector, "bestvideo") {
		t.Fatalf("audio tier selector requests video: %q", spec.FormatSelector)
	}
}

func TestLookupFormat(t *testing.T) {
	for _, name := range Formats() {
		format, err := LookupFormat(name)
		if err != nil {
			t.Fatalf("LookupFormat(%q): %v", name, err)
		}
		if format.Extension != "."+name {
			t.Fatalf("format %q extension %q", name, format.Extension)
		}
		if format.AudioCodec == "" {
			t.Fatalf("format %q has no audio codec", name)
		}
		if !format.AudioOnly && format.VideoCodec == "" {
			t.Fatalf("video format %q has no video codec", name)
		}
	}
}

func TestLookupFormatNormalizesInput(t *testing.T) {
	format, err := LookupFormat(".MP4")
	if err != nil {
		t.Fatal(err)
	}
	if format.Name != "mp4" {
		t.Fatalf("got %q", format.Name)
	}
}

func TestLookupFormatUnknown(t *testing.T) {
	_, err := LookupFormat("rm")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWebmAndMp4DifferInCodecs(t *testing.T) {
	mp4, _ := LookupFormat("mp4")
	webm, _ := LookupFormat("webm")
	if mp4.VideoCodec == webm.VideoCodec {
		t.Fatal("mp4 and webm must use distinct video codecs")
	}
	if mp4.AudioCodec == webm.AudioCodec {
		t.Fatal("mp4 and webm must use distinct audio codecs")
	}
}
