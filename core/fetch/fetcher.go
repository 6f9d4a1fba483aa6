// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with browser-like headers and bounded retry
// with linearly increasing backoff. A page or image that still fails after the
// last attempt is reported as unavailable; the caller decides whether that
// skips a page or omits an image.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultPageTimeout     = 30 * time.Second
	defaultDownloadTimeout = 45 * time.Second
	defaultMaxAttempts     = 3
	defaultBackoff         = 1500 * time.Millisecond
)

// Options configures a Client. The zero value gets sensible defaults.
type Options struct {
	UserAgent       string
	PageTimeout     time.Duration
	DownloadTimeout time.Duration
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// Backoff is the base of the linear retry delay: sleep = Backoff × attempt.
	Backoff time.Duration
}

// Client fetches web pages and binary resources via HTTP. It is constructed
// once, read-only afterwards, and safe to share across the run.
type Client struct {
	pages     *http.Client
	downloads *http.Client
	opts      Options
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = defaultPageTimeout
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = defaultDownloadTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	return &Client{
		pages:     &http.Client{Timeout: opts.PageTimeout},
		downloads: &http.Client{Timeout: opts.DownloadTimeout},
		opts:      opts,
	}
}

// FetchPage retrieves the HTML content of the given URL, retrying transient
// failures. Non-HTML responses count as failures.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		html, err := c.tryPage(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
		log.Debug().Str("url", url).Int("attempt", attempt).Err(err).Msg("page fetch failed")
		if attempt < c.opts.MaxAttempts {
			if err := sleep(ctx, time.Duration(attempt)*c.opts.Backoff); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("fetching %s after %d attempts: %w", url, c.opts.MaxAttempts, lastErr)
}

func (c *Client) tryPage(ctx context.Context, url string) (string, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.pages.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		return "", fmt.Errorf("unexpected content type %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}

// Download streams the resource at url into dest, retrying transient failures.
// A partially written file from a failed attempt is removed before retrying.
func (c *Client) Download(ctx context.Context, url string, dest string) error {
	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		err := c.tryDownload(ctx, url, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		_ = os.Remove(dest)
		log.Debug().Str("url", url).Int("attempt", attempt).Err(err).Msg("download failed")
		if attempt < c.opts.MaxAttempts {
			if err := sleep(ctx, time.Duration(attempt)*c.opts.Backoff); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("downloading %s after %d attempts: %w", url, c.opts.MaxAttempts, lastErr)
}

func (c *Client) tryDownload(ctx context.Context, url string, dest string) error {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return err
	}

	resp, err := c.downloads.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	return req, nil
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
