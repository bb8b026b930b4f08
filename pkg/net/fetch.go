// Package net retrieves job posting pages and reduces them to visible text.
package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const maxPageBytes = 5 << 20

var (
	// ErrorURLNotFound is returned when the page responds with 404.
	ErrorURLNotFound = errors.New("URL not found")

	// ErrInvalidURL is returned for addresses that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL")
)

// Fetcher downloads pages under a shared rate limit.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher returns a fetcher allowing ratePerSecond requests with a burst
// of one, each bounded by timeout.
func NewFetcher(timeout time.Duration, ratePerSecond float64) (*Fetcher, error) {
	c, err := GetHTTPClient(timeout)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		client:  c,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}, nil
}

// FetchText downloads the page at raw and returns its visible text.
func (f *Fetcher) FetchText(ctx context.Context, raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("error creating HTTP Get request: %w", err)
	}
	req.Header.Set("User-Agent", clientAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req) //nolint:gosec // URL validated above
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	PrintHTTPResponse(resp)

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrorURLNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error fetching page (status: %d - %s): %s", resp.StatusCode, resp.Status, u)
	}

	return PageText(io.LimitReader(resp.Body, maxPageBytes))
}

// PageText parses HTML and returns the page title followed by the visible
// body text, whitespace collapsed.
func PageText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style, noscript, template, svg, iframe").Remove()

	title := strings.TrimSpace(doc.Find("head title").First().Text())
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	parts := make([]string, 0, 2)
	if title != "" {
		parts = append(parts, title)
	}
	var sb strings.Builder
	collectText(body, &sb)
	if t := strings.Join(strings.Fields(sb.String()), " "); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, " "), nil
}

// collectText appends every text node under s in document order, separated
// by spaces so adjacent block elements do not fuse words.
func collectText(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			sb.WriteString(c.Text())
			sb.WriteByte(' ')
			return
		}
		collectText(c, sb)
	})
}
