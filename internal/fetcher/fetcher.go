package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Fetcher retrieves documents and raw assets over HTTP.
// It owns request headers and body-size limits so every fetch in a
// session behaves consistently.
//
// Design decision: We require an external http.Client rather than
// creating one internally because:
//  1. Timeout configuration belongs to the caller
//  2. Connection pooling can be shared across components
//  3. Tests can inject httptest server clients
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// headers are extra headers added to every request, typically
	// loaded from a per-site configuration.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// probeTimeout bounds Probe requests independently of the
	// client timeout. Probes must stay fast even when pages are slow.
	probeTimeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProbeTimeout sets the timeout for existence probes.
func WithProbeTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.probeTimeout = d
		}
	}
}

// New creates a Fetcher with the given HTTP client.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       client,
		userAgent:    "sitegrab/1.0 (+https://github.com/sitegrab/sitegrab)",
		maxBodySize:  10 * 1024 * 1024, // 10MB
		probeTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves pageURL and parses the body into a navigable document.
// It returns *FetchError on transport failure or non-2xx status and
// *ParseError when the body cannot be read or decoded. Malformed markup
// is handled leniently by the parser and does not produce an error.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	body := io.LimitReader(resp.Body, f.maxBodySize)

	// Decode according to the declared or sniffed charset; pages are not
	// guaranteed to be UTF-8.
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	return doc, nil
}

// FetchBytes retrieves rawURL and returns the raw body.
// It is used for asset downloads where no parsing is wanted.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	return data, nil
}

// Probe checks whether rawURL responds with HTTP 200 to a HEAD request.
// No body is downloaded. The probe uses its own short timeout so a scan
// over many dead candidates finishes quickly.
func (f *Fetcher) Probe(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	return resp.StatusCode == http.StatusOK
}

// get performs a GET request and validates the response status.
func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close() //nolint:errcheck // best effort cleanup
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// setHeaders applies the standard and per-site headers to a request.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
}
