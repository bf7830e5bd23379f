package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := Wrap(ErrProcessAbnormalExit, "ytdlp", "fetch", "download failed", base)
	if !errors.Is(err, ErrProcessAbnormalExit) {
		t.Fatalf("expected ErrProcessAbnormalExit, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error to survive, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "ffmpeg", "transcode", "", nil)
	if !errors.Is(err, ErrProcessAbnormalExit) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{ErrPlatformAuthRequired, "PlatformAuthRequired"},
		{ErrNoOutputProduced, "NoOutputProduced"},
		{ErrProcessSpawnFailure, "ProcessSpawnFailure"},
		{ErrProcessAbnormalExit, "ProcessAbnormalExit"},
		{ErrAudioTopologyEmpty, "AudioTopologyEmpty"},
		{ErrChannelIndexOutOfRange, "ChannelIndexOutOfRange"},
		{ErrArchiveFailure, "ArchiveFailure"},
		{ErrConflict, "ConflictError"},
		{errors.New("anything else"), "ProcessAbnormalExit"},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if got := Kind(wrapped); got != tc.kind {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
	}
}

func TestAuthRequiredErrorUnwrapsToMarker(t *testing.T) {
	err := fmt.Errorf("extract: %w", &AuthRequiredError{
		Platform: "instagram",
		Guidance: "provide a cookies file for instagram",
		Detail:   "login required",
	})
	if !errors.Is(err, ErrPlatformAuthRequired) {
		t.Fatalf("expected ErrPlatformAuthRequired, got %v", err)
	}
	if Kind(err) != "PlatformAuthRequired" {
		t.Fatalf("unexpected kind %q", Kind(err))
	}
	if got := GuidanceFor(err); got != "provide a cookies file for instagram" {
		t.Fatalf("unexpected guidance %q", got)
	}
	if GuidanceFor(errors.New("plain")) != "" {
		t.Fatal("expected empty guidance for plain error")
	}
}
