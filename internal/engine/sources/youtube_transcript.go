package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_digest/internal/engine"
)

// Strategy is one named way of retrieving a transcript.
type Strategy struct {
	Name  string
	Fetch func(ctx context.Context, videoID string) (string, error)
}

// TranscriptFetcher tries its strategies in order and returns the first
// non-empty transcript as an engine.Document.
type TranscriptFetcher struct {
	Strategies []Strategy
}

// NewTranscriptFetcher builds the default strategy order:
// captions, ANDROID player, engagement panel.
func NewTranscriptFetcher(captions CaptionSource, langs []string) *TranscriptFetcher {
	return &TranscriptFetcher{Strategies: []Strategy{
		{Name: "captions", Fetch: captionsStrategy(captions)},
		{Name: "player", Fetch: func(ctx context.Context, id string) (string, error) {
			return fetchTranscriptViaPlayer(ctx, id, langs)
		}},
		{Name: "engagement_panel", Fetch: fetchTranscriptViaEngagementPanel},
	}}
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// FetchVideoDocument implements engine.VideoFetcher. Every failure wraps
// engine.ErrNoContent together with each strategy's reason.
func (f *TranscriptFetcher) FetchVideoDocument(ctx context.Context, videoID, rawURL string) (engine.Document, error) {
	engine.IncrTranscriptRequests()

	if !videoIDRe.MatchString(videoID) {
		return engine.Document{}, fmt.Errorf("%w: invalid video id %q", engine.ErrNoContent, videoID)
	}

	var reasons []error
	for _, s := range f.Strategies {
		if err := ctx.Err(); err != nil {
			reasons = append(reasons, err)
			break
		}
		doc, err := runStrategy(ctx, s, videoID, rawURL)
		if err == nil {
			slog.Debug("transcript fetched",
				slog.String("id", videoID), slog.String("strategy", s.Name), slog.Int("len", len(doc.Content)))
			return doc, nil
		}
		engine.IncrTranscriptStrategyFailures()
		slog.Warn("transcript strategy failed",
			slog.String("id", videoID), slog.String("strategy", s.Name), slog.Any("error", err))
		reasons = append(reasons, fmt.Errorf("%s: %w", s.Name, err))
	}
	return engine.Document{}, fmt.Errorf("%w: %w", engine.ErrNoContent, errors.Join(reasons...))
}

func runStrategy(ctx context.Context, s Strategy, videoID, rawURL string) (doc engine.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	text, err := s.Fetch(ctx, videoID)
	if err != nil {
		return engine.Document{}, err
	}
	doc, err = engine.Normalize(text, map[string]string{
		engine.MetaSource:   rawURL,
		engine.MetaVideoID:  videoID,
		engine.MetaStrategy: s.Name,
	})
	if errors.Is(err, engine.ErrEmptyContent) {
		return engine.Document{}, errNoSegments
	}
	return doc, err
}

// captionsStrategy lists tracks and fetches each in order until one yields text.
func captionsStrategy(src CaptionSource) func(context.Context, string) (string, error) {
	return func(ctx context.Context, videoID string) (string, error) {
		tracks, err := src.ListCaptionTracks(ctx, videoID)
		if err != nil {
			return "", err
		}
		if len(tracks) == 0 {
			return "", errCaptionsDisabled
		}
		errs := []error{errNoSegments}
		for _, t := range tracks {
			segs, err := src.FetchTrack(ctx, t)
			if err != nil {
				errs = append(errs, fmt.Errorf("track %s: %w", t.LanguageCode, err))
				continue
			}
			if text := joinSegments(segs); text != "" {
				return text, nil
			}
		}
		return "", errors.Join(errs...)
	}
}

// fetchTranscriptViaPlayer uses the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func fetchTranscriptViaPlayer(ctx context.Context, videoID string, langs []string) (string, error) {
	data, err := postInnerTubeAndroid(ctx, ytPlayerPath, innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return "", err
	}

	var pr playerResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return "", fmt.Errorf("decode player: %w", err)
	}
	tracks, err := pr.tracks()
	if err != nil {
		return "", err
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return "", errPoTokenOnly
	}
	segs, err := fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	return joinSegments(segs), nil
}

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// /next returns the params URL-encoded; /get_transcript wants raw base64.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", errors.New("getTranscriptEndpoint not found in engagement panels")
}

// parseTranscriptSegments extracts caption runs from a /get_transcript response.
func parseTranscriptSegments(resp ytGetTranscriptResp) []CaptionSegment {
	var segs []CaptionSegment
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		list := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range list {
			if seg.TranscriptSegmentRenderer == nil {
				continue
			}
			var sb strings.Builder
			for _, run := range seg.TranscriptSegmentRenderer.Snippet.Runs {
				sb.WriteString(run.Text)
			}
			segs = append(segs, CaptionSegment{Text: sb.String()})
		}
	}
	return segs
}

// fetchTranscriptViaEngagementPanel fetches a transcript via
// POST /next (transcript continuation token) then POST /get_transcript.
// Works from datacenter IPs where /player returns LOGIN_REQUIRED.
func fetchTranscriptViaEngagementPanel(ctx context.Context, videoID string) (string, error) {
	visitorData := generateVisitorData()

	nextData, err := postInnerTubeWEB(ctx, ytNextPath, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return "", err
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return "", err
	}

	transcriptData, err := postInnerTubeWEB(ctx, ytGetTranscriptPath, map[string]any{
		"params":  token,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return "", err
	}

	var resp ytGetTranscriptResp
	if err := json.Unmarshal(transcriptData, &resp); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}
	return joinSegments(parseTranscriptSegments(resp)), nil
}
