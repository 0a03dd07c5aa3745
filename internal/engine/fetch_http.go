package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

// errNonText is returned for responses that are not HTML or plain text.
var errNonText = errors.New("non-text content")

// fetchedPage is a decoded HTTP response body.
type fetchedPage struct {
	body      []byte
	mediaType string // e.g. "text/html"
}

// isHTML reports whether the page should go through HTML extraction.
func (p fetchedPage) isHTML() bool {
	return p.mediaType == "text/html" || p.mediaType == "application/xhtml+xml" || p.mediaType == ""
}

// fetchPage performs an HTTP GET with transient-status retry, checks the content
// type and decodes the body to UTF-8.
func fetchPage(ctx context.Context, fetchURL string) (fetchedPage, error) {
	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.5")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip")
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return fetchedPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fetchedPage{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	ctype := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(ctype)
	if !isTextMedia(mediaType) {
		return fetchedPage{}, fmt.Errorf("%w: %s", errNonText, mediaType)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fetchedPage{}, fmt.Errorf("read body: %w", err)
	}
	return fetchedPage{body: toUTF8(body, ctype), mediaType: mediaType}, nil
}

func isTextMedia(mediaType string) bool {
	switch {
	case mediaType == "":
		return true
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/xhtml+xml", mediaType == "application/xml":
		return true
	}
	return false
}

// readResponseBody reads at most cfg.MaxPageBytes, handling gzip when the
// transport did not decompress transparently.
func readResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return readLimited(gz, cfg.MaxPageBytes)
	}
	return readLimited(resp.Body, cfg.MaxPageBytes)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// toUTF8 converts body to UTF-8 using the declared or sniffed charset.
// The body is returned unchanged if decoding fails.
func toUTF8(body []byte, contentType string) []byte {
	r, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
