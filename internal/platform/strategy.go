package platform

// Strategy captures the extraction-tool quirks of a platform: extra
// arguments, whether one request may legitimately produce several files
// (carousels), and the stderr patterns that indicate the platform wants an
// authenticated session.
type Strategy struct {
	Tag Tag
	// ExtraArgs are appended verbatim to the extraction argument vector.
	ExtraArgs []string
	// AllowsMultiFile permits archive packaging when more than one media
	// file is produced.
	AllowsMultiFile bool
	// AuthFailurePatterns are matched case-insensitively against captured
	// stderr after a nonzero exit.
	AuthFailurePatterns []string
	// AuthGuidance is surfaced to the client when an auth pattern matches.
	AuthGuidance string
}

var strategies = map[Tag]Strategy{
	YouTube: {
		Tag:       YouTube,
		ExtraArgs: []string{"--no-playlist"},
		AuthFailurePatterns: []string{
			"sign in to confirm",
			"age-restricted",
			"private video",
			"members-only",
		},
		AuthGuidance: "This YouTube video requires a signed-in session. Pass a cookies file to the extraction tool or pick a public video.",
	},
	Instagram: {
		Tag:             Instagram,
		ExtraArgs:       []string{"--yes-playlist", "--sleep-requests", "1"},
		AllowsMultiFile: true,
		AuthFailurePatterns: []string{
			"login required",
			"rate-limit reached",
			"requested content is not available",
		},
		AuthGuidance: "Instagram blocks anonymous extraction for this post. Authenticated cookies are required; public posts usually work without them.",
	},
	Facebook: {
		Tag:       Facebook,
		ExtraArgs: []string{"--no-check-certificates"},
		AuthFailurePatterns: []string{
			"you must log in",
			"login required",
			"this video is only available",
		},
		AuthGuidance: "Facebook requires a logged-in session for this video. Only public videos can be fetched anonymously.",
	},
	Twitter: {
		Tag:             Twitter,
		AllowsMultiFile: true,
		AuthFailurePatterns: []string{
			"nsfw tweet",
			"requires authentication",
		},
		AuthGuidance: "This post is restricted on Twitter/X and needs an authenticated session.",
	},
	TikTok: {
		Tag:       TikTok,
		ExtraArgs: []string{"--referer", "https://www.tiktok.com/"},
		AuthFailurePatterns: []string{
			"private video",
			"log in for access",
		},
		AuthGuidance: "This TikTok video is private or region-locked; an authenticated session is needed.",
	},
	Twitch: {
		Tag: Twitch,
		AuthFailurePatterns: []string{
			"subscriber-only",
			"unable to authenticate",
		},
		AuthGuidance: "This Twitch VOD is subscriber-only; extraction needs an authenticated session.",
	},
	Reddit: {
		Tag: Reddit,
	},
	Vimeo: {
		Tag: Vimeo,
		AuthFailurePatterns: []string{
			"password protected",
			"you must be logged in",
		},
		AuthGuidance: "This Vimeo video is password protected or private.",
	},
	DirectVideo: {
		Tag: DirectVideo,
	},
	Generic: {
		Tag:       Generic,
		ExtraArgs: []string{"--retries", "3", "--sleep-interval", "1"},
	},
}

// StrategyFor returns the strategy for a tag, falling back to the generic
// strategy for tags without a dedicated entry.
func StrategyFor(tag Tag) Strategy {
	if strat, ok := strategies[tag]; ok {
		return strat
	}
	return strategies[Generic]
}
