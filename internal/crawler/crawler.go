package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitegrab/sitegrab/internal/extractor"
	"github.com/sitegrab/sitegrab/internal/fetcher"
	"github.com/sitegrab/sitegrab/internal/model"
)

// Budget limits one crawl session. Zero means unlimited.
//
// Design decision: The budget is an immutable value passed into Crawl
// rather than mutable crawler state because:
//  1. Two concurrent crawls on one Crawler cannot race on limits
//  2. Callers see at the call site what bounds a session
//  3. A zero value (no limits) is safe and explicit
type Budget struct {
	// MaxPages caps the number of successfully extracted pages.
	MaxPages int

	// MaxDepth caps how many link hops from the start URL are followed.
	MaxDepth int
}

// PageExtractor persists a single page. *extractor.Extractor is the
// production implementation.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL, projectName string) (*extractor.Result, error)
}

// Crawler walks a single domain breadth-first from a start URL,
// extracting every reachable same-host page within budget.
type Crawler struct {
	// fetcher enumerates links on already-extracted pages.
	fetcher *fetcher.Fetcher

	// extractor persists each dispatched page.
	extractor PageExtractor

	// logger records per-page progress and failures.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler using the given fetcher for link discovery and
// extractor for per-page persistence.
func New(f *fetcher.Fetcher, e PageExtractor, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:   f,
		extractor: e,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// frontierEntry is one pending crawl task.
type frontierEntry struct {
	url   string
	depth int
}

// session holds the mutable state of one Crawl call.
//
// Design decision: Session state lives in a per-call value, not on the
// Crawler, so a Crawler can be reused (or shared) across sessions
// without any visited-set or frontier bleed between them.
type session struct {
	frontier []frontierEntry
	visited  map[string]bool
}

// Crawl walks the start URL's host breadth-first and extracts every
// page it dispatches. When projectName is non-empty each page gets a
// 1-based numbered project of its own (projectName_1, projectName_2,
// ...); otherwise per-page names are derived from the page host.
//
// Page-level failures are recorded and skipped, never fatal; the only
// error Crawl itself returns is context cancellation. Records are in
// completion order.
func (c *Crawler) Crawl(ctx context.Context, startURL, projectName string, budget Budget) ([]model.ExtractionRecord, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}

	s := &session{
		frontier: []frontierEntry{{url: startURL, depth: 0}},
		visited:  make(map[string]bool),
	}

	records := make([]model.ExtractionRecord, 0)
	extracted := 0

	for len(s.frontier) > 0 {
		// Page budget is terminal: pending entries are discarded.
		if budget.MaxPages > 0 && extracted >= budget.MaxPages {
			c.logger.Info("page budget reached, stopping crawl", "pages", extracted)
			break
		}

		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		entry := s.frontier[0]
		s.frontier = s.frontier[1:]

		// Depth overruns are skipped without marking visited, so a
		// shallower rediscovery of the same URL can still be processed.
		if budget.MaxDepth > 0 && entry.depth > budget.MaxDepth {
			c.logger.Debug("skipping entry beyond depth budget", "url", entry.url, "depth", entry.depth)
			continue
		}

		key := normalizeURL(entry.url)
		if s.visited[key] {
			continue
		}
		s.visited[key] = true

		name := ""
		if projectName != "" {
			name = fmt.Sprintf("%s_%d", projectName, extracted+1)
		}

		began := time.Now()
		result, err := c.extractor.Extract(ctx, entry.url, name)
		record := model.ExtractionRecord{
			URL:      entry.url,
			Depth:    entry.depth,
			Duration: time.Since(began),
		}
		if err != nil {
			c.logger.Error("failed to extract page", "url", entry.url, "error", err)
			record.Error = err.Error()
			records = append(records, record)
			continue
		}

		record.ProjectDir = result.ProjectDir
		record.Assets = result.Assets
		records = append(records, record)
		extracted++

		c.discoverLinks(ctx, s, entry.url, start.Host, entry.depth+1)
	}

	return records, nil
}

// discoverLinks re-fetches an extracted page and enqueues its
// same-host anchor links at the given depth, in document order.
//
// The re-fetch is deliberate: link discovery stays decoupled from the
// extractor's own fetch and parse, so the crawler depends only on the
// extractor's input contract. Discovery failures cost the page's
// outbound links, nothing more.
func (c *Crawler) discoverLinks(ctx context.Context, s *session, pageURL, startHost string, depth int) {
	doc, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("failed to discover links", "url", pageURL, "error", err)
		return
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || skipLink(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		absolute := base.ResolveReference(ref)
		if absolute.Host != startHost {
			return
		}
		if s.visited[normalizeURL(absolute.String())] {
			return
		}

		s.frontier = append(s.frontier, frontierEntry{url: absolute.String(), depth: depth})
	})
}

// skipLink reports whether a raw href can never lead to a new page.
func skipLink(href string) bool {
	for _, prefix := range []string{"#", "mailto:", "tel:"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// normalizeURL produces the visited-set key for a URL: fragment
// stripped, scheme and host lowercased, empty path treated as "/".
// Unparsable URLs key on their raw string.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
