package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_digest/internal/engine"
)

var (
	errCaptionsDisabled = errors.New("transcripts disabled")
	errNoSegments       = errors.New("no caption segments")
	errPoTokenOnly      = errors.New("all caption tracks require PoToken")
)

// CaptionTrack is one caption listing of a video.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// CaptionSegment is one timed caption line. Start and Duration are seconds.
type CaptionSegment struct {
	Text     string
	Start    float64
	Duration float64
}

// CaptionSource is the direct transcript capability: list a video's tracks,
// then fetch one.
type CaptionSource interface {
	ListCaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	FetchTrack(ctx context.Context, track CaptionTrack) ([]CaptionSegment, error)
}

const (
	ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes             = 6 << 20
	maxTimedTextBytes             = 512 << 10
)

// WatchPageCaptions lists tracks from the watch page's embedded
// ytInitialPlayerResponse. The page is fetched with the engine's browser
// client when one is configured.
type WatchPageCaptions struct {
	Langs []string // preferred languages, first wins
}

func (w WatchPageCaptions) ListCaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	body, err := engine.BrowserGet(ctx, ytURL("/watch?v="+videoID), maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var pr playerResponse
	if err := json.Unmarshal(jsonData, &pr); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	tracks, err := pr.tracks()
	if err != nil {
		return nil, err
	}
	ordered := orderTracks(tracks, w.Langs)
	if len(ordered) == 0 {
		return nil, errPoTokenOnly
	}
	return ordered, nil
}

func (WatchPageCaptions) FetchTrack(ctx context.Context, track CaptionTrack) ([]CaptionSegment, error) {
	return fetchTimedText(ctx, track.BaseURL)
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// orderTracks drops PoToken-only tracks and sorts the rest by preference:
// manual tracks in a preferred language, auto-generated ones in a preferred
// language, English, then everything else in listing order.
func orderTracks(tracks []CaptionTrack, langs []string) []CaptionTrack {
	usable := make([]CaptionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}

	out := make([]CaptionTrack, 0, len(usable))
	taken := make([]bool, len(usable))
	take := func(match func(CaptionTrack) bool) {
		for i, t := range usable {
			if !taken[i] && match(t) {
				taken[i] = true
				out = append(out, t)
			}
		}
	}
	for _, lang := range langs {
		take(func(t CaptionTrack) bool { return t.LanguageCode == lang && t.Kind != "asr" })
	}
	for _, lang := range langs {
		take(func(t CaptionTrack) bool { return t.LanguageCode == lang })
	}
	take(func(t CaptionTrack) bool { return strings.HasPrefix(t.LanguageCode, "en") })
	take(func(CaptionTrack) bool { return true })
	return out
}

// pickBestTrack selects the most preferred usable track.
func pickBestTrack(tracks []CaptionTrack, langs []string) (CaptionTrack, bool) {
	ordered := orderTracks(tracks, langs)
	if len(ordered) == 0 {
		return CaptionTrack{}, false
	}
	return ordered[0], true
}

// --- Timedtext XML ---

type ytTimedText struct {
	Lines []ytLine `xml:"text"`
}

type ytLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// fetchTimedText fetches and parses a timedtext XML caption URL.
func fetchTimedText(ctx context.Context, baseURL string) ([]CaptionSegment, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

func parseTimedText(body []byte) ([]CaptionSegment, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errNoSegments
	}
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	segs := make([]CaptionSegment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		start, _ := strconv.ParseFloat(line.Start, 64)
		dur, _ := strconv.ParseFloat(line.Dur, 64)
		segs = append(segs, CaptionSegment{Text: line.Text, Start: start, Duration: dur})
	}
	return segs, nil
}

// joinSegments cleans each segment and joins them with one space, in order.
func joinSegments(segs []CaptionSegment) string {
	var sb strings.Builder
	for _, s := range segs {
		text := engine.CleanHTML(s.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
