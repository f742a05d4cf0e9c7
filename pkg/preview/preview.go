// Package preview fetches best-effort OpenGraph metadata for result URLs.
// Fetches never fail the pipeline: any error yields an empty Preview and the
// caller proceeds with whatever fields it already has.
package preview

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/stackscout/backend/internal/metrics"
	"github.com/stackscout/backend/pkg/logger"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; StackscoutBot/1.0)"
	maxBodyBytes = 2 << 20
	excerptLimit = 240
)

// Preview holds the four optional metadata fields scraped from a page.
// All fields may be empty.
type Preview struct {
	Title       string
	Description string
	Image       string
	Site        string
}

// IsEmpty reports whether the preview carries no metadata at all.
func (p Preview) IsEmpty() bool {
	return p.Title == "" && p.Description == "" && p.Image == "" && p.Site == ""
}

// Fetcher scrapes preview metadata with a per-URL cache. Concurrent fetches
// of the same URL are collapsed via singleflight, and outbound requests are
// rate limited to avoid hammering the scraped sites.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	cache   map[string]Preview
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewFetcherParams configures a Fetcher.
type NewFetcherParams struct {
	Timeout        time.Duration // per-request timeout, defaults to 5s
	RequestsPerSec float64       // outbound rate limit, defaults to 10
}

// NewFetcher creates a preview fetcher.
func NewFetcher(params NewFetcherParams) *Fetcher {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rps := params.RequestsPerSec
	if rps <= 0 {
		rps = 10
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
		cache:      make(map[string]Preview),
	}
}

// Fetch scrapes preview metadata from a URL. It always returns a Preview,
// empty on any failure.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) Preview {
	if pageURL == "" {
		return Preview{}
	}

	f.cacheMu.RLock()
	if cached, ok := f.cache[pageURL]; ok {
		f.cacheMu.RUnlock()
		return cached
	}
	f.cacheMu.RUnlock()

	result, _, _ := f.group.Do(pageURL, func() (any, error) {
		f.cacheMu.RLock()
		if cached, ok := f.cache[pageURL]; ok {
			f.cacheMu.RUnlock()
			return cached, nil
		}
		f.cacheMu.RUnlock()

		pv := f.fetch(ctx, pageURL)
		if pv.IsEmpty() {
			metrics.PreviewFailures.Inc()
			// Not cached: a transient failure should not pin an empty
			// preview for the rest of the process lifetime.
			return pv, nil
		}

		f.cacheMu.Lock()
		f.cache[pageURL] = pv
		f.cacheMu.Unlock()

		return pv, nil
	})

	pv, ok := result.(Preview)
	if !ok {
		return Preview{}
	}
	return pv
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) Preview {
	if err := f.limiter.Wait(ctx); err != nil {
		return Preview{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		logger.Debug("Preview request creation failed", "url", pageURL, "err", err)
		return Preview{}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Debug("Preview fetch failed", "url", pageURL, "err", err)
		return Preview{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debug("Preview fetch non-2xx", "url", pageURL, "status", resp.StatusCode)
		return Preview{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Preview{}
	}

	return parsePreview(body, pageURL)
}

func parsePreview(body []byte, pageURL string) Preview {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Preview{}
	}

	pv := Preview{
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		Image:       metaContent(doc, "og:image"),
		Site:        metaContent(doc, "og:site_name"),
	}

	// Scraped image URLs come back entity-escaped often enough that the
	// client would render broken links without this.
	pv.Image = strings.ReplaceAll(pv.Image, "amp;", "")

	if pv.Title == "" {
		pv.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if pv.Description == "" {
		if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
			pv.Description = strings.TrimSpace(desc)
		}
	}
	if pv.Description == "" {
		pv.Description = readableExcerpt(body, pageURL)
	}

	return pv
}

func metaContent(doc *goquery.Document, property string) string {
	if content, ok := doc.Find("meta[property='" + property + "']").Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// readableExcerpt extracts the main article text and truncates it to a short
// description, used when a page carries no description markup at all.
func readableExcerpt(body []byte, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := fromReader(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(article), " ")
	if len(text) <= excerptLimit {
		return text
	}
	cut := strings.LastIndex(text[:excerptLimit], " ")
	if cut <= 0 {
		cut = excerptLimit
	}
	return text[:cut] + "…"
}
