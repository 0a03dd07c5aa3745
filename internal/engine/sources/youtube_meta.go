package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_digest/internal/engine"
)

// OEmbed looks up a video's title and author through the public oEmbed endpoint.
type OEmbed struct{}

type oembedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchVideoMetadata implements engine.MetadataFetcher.
func (OEmbed) FetchVideoMetadata(ctx context.Context, rawURL string) (engine.VideoMetadata, error) {
	endpoint := ytURL("/oembed") + "?format=json&url=" + url.QueryEscape(rawURL)

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.VideoMetadata{}, fmt.Errorf("oembed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return engine.VideoMetadata{}, fmt.Errorf("oembed: status %d", resp.StatusCode)
	}

	var o oembedResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&o); err != nil {
		return engine.VideoMetadata{}, fmt.Errorf("oembed decode: %w", err)
	}
	// titles may carry invisible word joiners (U+2060)
	title := strings.TrimSpace(strings.ReplaceAll(o.Title, "\u2060", ""))
	return engine.VideoMetadata{Title: title, Author: o.AuthorName}, nil
}
