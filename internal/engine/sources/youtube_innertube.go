package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/anatolykoptev/go_digest/internal/engine"
)

// ytOrigin is the scheme and host every YouTube endpoint hangs off.
// Tests point it at an httptest server.
var ytOrigin = "https://www.youtube.com"

const (
	ytPlayerPath        = "/youtubei/v1/player"
	ytNextPath          = "/youtubei/v1/next"
	ytGetTranscriptPath = "/youtubei/v1/get_transcript"
	ytWebVersion        = "2.20250222.10.00"
	ytAndroidVersion    = "20.10.38"
	ytAndroidUA         = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"

	maxInnertubeBytes = 3 << 20
)

func ytURL(path string) string { return ytOrigin + path }

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// playerResponse is shared by the /player endpoint and the watch page's
// embedded ytInitialPlayerResponse.
type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// tracks returns the listed caption tracks, or an error naming why there are none.
func (p playerResponse) tracks() ([]CaptionTrack, error) {
	if p.Captions == nil {
		if p.PlayabilityStatus != nil && p.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", errCaptionsDisabled, p.PlayabilityStatus.Reason)
		}
		return nil, errCaptionsDisabled
	}
	tracks := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, errCaptionsDisabled
	}
	return tracks, nil
}

// --- WEB client types (/next and /get_transcript endpoints) ---

type ytWebClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type ytWebUser struct {
	EnableSafetyMode bool `json:"enableSafetyMode"`
}

type ytWebReqCtx struct {
	UseSsl bool `json:"useSsl"`
}

// --- /get_transcript response ---

type ytGetTranscriptResp struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []struct {
										TranscriptSegmentRenderer *struct {
											Snippet struct {
												Runs []struct {
													Text string `json:"text"`
												} `json:"runs"`
											} `json:"snippet"`
										} `json:"transcriptSegmentRenderer"`
									} `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

// generateVisitorData creates a random 11-char visitor ID for Innertube requests.
func generateVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

// ytWebContext builds the standard WEB client context for Innertube payloads.
func ytWebContext(visitorData string) map[string]any {
	return map[string]any{
		"client": ytWebClientCtx{
			ClientName:    "WEB",
			ClientVersion: ytWebVersion,
			VisitorData:   visitorData,
			Hl:            "en",
			Gl:            "US",
		},
		"user":    ytWebUser{EnableSafetyMode: false},
		"request": ytWebReqCtx{UseSsl: true},
	}
}

// postInnerTubeWEB POSTs to an Innertube endpoint with WEB client headers.
func postInnerTubeWEB(ctx context.Context, path string, payload any, visitorData string) ([]byte, error) {
	return postInnerTube(ctx, path, payload, map[string]string{
		"Accept":                   "*/*",
		"User-Agent":               engine.UserAgentChrome,
		"X-Youtube-Client-Name":    "1",
		"X-Youtube-Client-Version": ytWebVersion,
		"X-Goog-Visitor-Id":        visitorData,
		"Origin":                   "https://www.youtube.com",
		"Referer":                  "https://www.youtube.com/",
	})
}

// postInnerTubeAndroid POSTs to an Innertube endpoint as the ANDROID client.
func postInnerTubeAndroid(ctx context.Context, path string, payload any) ([]byte, error) {
	return postInnerTube(ctx, path, payload, map[string]string{
		"User-Agent":               ytAndroidUA,
		"X-Youtube-Client-Name":    "3",
		"X-Youtube-Client-Version": ytAndroidVersion,
	})
}

func postInnerTube(ctx context.Context, path string, payload any, headers map[string]string) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytURL(path)+"?prettyPrint=false", bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("innertube %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("innertube %s: HTTP %d: %s", path, resp.StatusCode, snippet)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxInnertubeBytes))
}
