package platform

import (
	"net/url"
	"path"
	"strings"
)

// Tag identifies the source platform of a request URL.
type Tag string

const (
	YouTube     Tag = "youtube"
	Instagram   Tag = "instagram"
	Facebook    Tag = "facebook"
	Twitter     Tag = "twitter"
	TikTok      Tag = "tiktok"
	Twitch      Tag = "twitch"
	Reddit      Tag = "reddit"
	Vimeo       Tag = "vimeo"
	DirectVideo Tag = "direct-video"
	Generic     Tag = "generic"
)

// videoExtensions are the suffixes that mark a URL as a direct video file.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".mkv":  {},
	".mov":  {},
	".avi":  {},
	".flv":  {},
	".m4v":  {},
	".ts":   {},
}

var domainTags = []struct {
	substr string
	tag    Tag
}{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"instagram.com", Instagram},
	{"facebook.com", Facebook},
	{"fb.watch", Facebook},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
	{"tiktok.com", TikTok},
	{"twitch.tv", Twitch},
	{"reddit.com", Reddit},
	{"redd.it", Reddit},
	{"vimeo.com", Vimeo},
}

// IsVideoFile reports whether the file name carries a known video
// extension.
func IsVideoFile(name string) bool {
	_, ok := videoExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// Detect classifies a raw URL into a platform tag. It is pure and never
// fails: anything unrecognized is Generic.
func Detect(raw string) Tag {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Generic
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return Generic
	}

	host := strings.ToLower(parsed.Hostname())
	for _, entry := range domainTags {
		if host == entry.substr || strings.HasSuffix(host, "."+entry.substr) {
			return entry.tag
		}
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	if _, ok := videoExtensions[ext]; ok {
		return DirectVideo
	}

	return Generic
}
