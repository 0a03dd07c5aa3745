package engine

import (
	"regexp"
	"strings"
)

// SourceKind tells the pipeline which fetch path a URL takes.
type SourceKind int

const (
	KindGenericPage SourceKind = iota // default
	KindVideo                         // video-hosting URL with a transcript
)

func (k SourceKind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "page"
}

// Source is the classification of one submitted URL.
type Source struct {
	Kind    SourceKind
	VideoID string // set only for KindVideo
	URL     string
}

// videoPatterns recognise video URL shapes, tried in order. Group 1 is the 11-char id.
var videoPatterns = []*regexp.Regexp{
	// watch: youtube.com/watch?v=ID, m./music./www. hosts, v= anywhere in the query
	regexp.MustCompile(`(?i)(?:^|//)(?:www\.|m\.|music\.)?youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})`),
	// short link: youtu.be/ID
	regexp.MustCompile(`(?i)(?:^|//)(?:www\.)?youtu\.be/([A-Za-z0-9_-]{11})`),
	// embed: /embed/ID, /v/ID, youtube-nocookie.com/embed/ID
	regexp.MustCompile(`(?i)(?:^|//)(?:www\.)?youtube(?:-nocookie)?\.com/(?:embed|v|e)/([A-Za-z0-9_-]{11})`),
	// shorts and live
	regexp.MustCompile(`(?i)(?:^|//)(?:www\.|m\.)?youtube\.com/(?:shorts|live)/([A-Za-z0-9_-]{11})`),
	// user-channel form: youtube.com/user/NAME#p/u/1/ID
	regexp.MustCompile(`(?i)(?:^|//)(?:www\.)?youtube\.com/(?:user|c)/[^#?/]+#(?:[a-z]/)*(?:[0-9]+/)?([A-Za-z0-9_-]{11})`),
}

// bareVideoIDRe is lexical only: any 11-char token of id characters counts,
// word-like ones such as "hello-world" included. Such input has no host and
// could not be fetched as a page anyway.
var bareVideoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Classify reports whether rawURL points at a video and extracts its id.
// Pure pattern matching, no IO. Anything unrecognised is a generic page;
// invalid URLs surface later as fetch failures.
func Classify(rawURL string) Source {
	u := strings.TrimSpace(rawURL)
	for _, re := range videoPatterns {
		if m := re.FindStringSubmatch(u); len(m) >= 2 {
			return Source{Kind: KindVideo, VideoID: m[1], URL: u}
		}
	}
	if bareVideoIDRe.MatchString(u) {
		return Source{Kind: KindVideo, VideoID: u, URL: WatchURL(u)}
	}
	return Source{Kind: KindGenericPage, URL: u}
}

// WatchURL returns the canonical watch page URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
