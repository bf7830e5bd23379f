package platform

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		url  string
		want Tag
	}{
		{"https://www.youtube.com/watch?v=abc123", YouTube},
		{"https://youtu.be/abc123", YouTube},
		{"https://music.youtube.com/watch?v=abc123", YouTube},
		{"https://www.instagram.com/p/xyz/", Instagram},
		{"https://www.facebook.com/watch/?v=1", Facebook},
		{"https://fb.watch/abc/", Facebook},
		{"https://twitter.com/user/status/1", Twitter},
		{"https://x.com/user/status/1", Twitter},
		{"https://www.tiktok.com/@user/video/1", TikTok},
		{"https://www.twitch.tv/videos/1", Twitch},
		{"https://www.reddit.com/r/videos/comments/a/", Reddit},
		{"https://vimeo.com/12345", Vimeo},
		{"https://cdn.example.com/clips/final.mp4", DirectVideo},
		{"https://cdn.example.com/clips/final.webm", DirectVideo},
		{"https://example.com/blog/post", Generic},
		{"not a url", Generic},
		{"", Generic},
	}
	for _, tc := range cases {
		if got := Detect(tc.url); got != tc.want {
			t.Fatalf("Detect(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestDetectDoesNotMatchEmbeddedDomains(t *testing.T) {
	// A lookalike domain must not be classified as the real platform.
	if got := Detect("https://notyoutube.com/watch?v=abc"); got != Generic {
		t.Fatalf("expected generic for lookalike domain, got %q", got)
	}
}

func TestStrategyForFallsBackToGeneric(t *testing.T) {
	strat := StrategyFor(Tag("unheard-of"))
	if strat.Tag != Generic {
		t.Fatalf("expected generic fallback, got %q", strat.Tag)
	}
}

func TestCarouselPlatformsAllowMultiFile(t *testing.T) {
	if !StrategyFor(Instagram).AllowsMultiFile {
		t.Fatal("instagram should allow multi-file results")
	}
	if !StrategyFor(Twitter).AllowsMultiFile {
		t.Fatal("twitter should allow multi-file results")
	}
	if StrategyFor(YouTube).AllowsMultiFile {
		t.Fatal("youtube single-video requests should not allow multi-file results")
	}
}
