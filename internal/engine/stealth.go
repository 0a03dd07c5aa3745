package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
)

// Re-export stealth types and functions for engine consumers.
type BrowserClient = stealth.BrowserClient

var DefaultRetryConfig = stealth.DefaultRetryConfig

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }

func RetryHTTP(ctx context.Context, rc stealth.RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}

// NewBrowserClient builds a Chrome-fingerprinted client for the video watch page.
// With a Webshare API key, requests rotate through the proxy pool, which helps
// with regional caption restrictions.
func NewBrowserClient(webshareAPIKey string) (*BrowserClient, error) {
	opts := []stealth.ClientOption{stealth.WithTimeout(15)}

	if webshareAPIKey != "" {
		pool, err := proxypool.NewWebshare(webshareAPIKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return bc, nil
}

// BrowserGet fetches rawURL with the configured browser client, falling back to
// the plain HTTP client when none is configured.
func BrowserGet(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	if bc := cfg.BrowserClient; bc != nil {
		headers := ChromeHeaders()
		headers["accept-language"] = "en-US,en;q=0.9"
		data, _, status, err := bc.Do(http.MethodGet, rawURL, headers, nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("status %d", status)
		}
		if int64(len(data)) > limit {
			data = data[:limit]
		}
		return data, nil
	}

	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return readLimited(resp.Body, limit)
}
