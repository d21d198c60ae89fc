package extractor

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitegrab/sitegrab/internal/fetcher"
	"github.com/sitegrab/sitegrab/internal/model"
)

// indexFile is the name the rewritten page is persisted under.
const indexFile = "index.html"

// Extractor persists single pages as self-contained local projects:
// the page itself plus local copies of its stylesheets, scripts, and
// images, with in-page references rewritten to relative paths.
type Extractor struct {
	// fetcher retrieves and parses the page.
	fetcher *fetcher.Fetcher

	// assets downloads and localizes referenced resources.
	assets *AssetDownloader

	// baseDir is the directory all projects are created under.
	baseDir string

	// logger records per-asset warnings.
	logger *slog.Logger
}

// Result describes one successful page extraction.
type Result struct {
	// ProjectDir is the directory the page was persisted to.
	ProjectDir string

	// Assets counts the localized and failed asset references.
	Assets model.AssetCounts
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extractor writing projects under baseDir.
func New(f *fetcher.Fetcher, baseDir string, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher: f,
		baseDir: baseDir,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.assets = NewAssetDownloader(f, e.logger)
	return e
}

// ProjectName derives a project name from a page URL: the host with
// dots replaced by underscores. Returns empty when the URL has no host.
func ProjectName(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(u.Host, ".", "_")
}

// Extract fetches pageURL, localizes its assets, rewrites navigation
// links to absolute form, and persists the result under the project
// directory. A pre-existing project directory is reused, not cleared.
//
// Asset failures degrade gracefully (the original reference stays in
// place); any other failure fails the whole page with *ExtractionError
// and nothing is persisted for it.
func (e *Extractor) Extract(ctx context.Context, pageURL, projectName string) (*Result, error) {
	if projectName == "" {
		projectName = ProjectName(pageURL)
	}
	if projectName == "" {
		return nil, &ExtractionError{URL: pageURL, Err: errInvalidProjectURL}
	}

	projectDir := filepath.Join(e.baseDir, projectName)
	if err := e.createLayout(projectDir); err != nil {
		return nil, &ExtractionError{URL: pageURL, Err: err}
	}

	e.logger.Info("extracting page", "url", pageURL, "project", projectDir)

	doc, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, &ExtractionError{URL: pageURL, Err: err}
	}

	counts := e.localizeAssets(ctx, doc, pageURL, projectDir)
	e.rewriteAnchors(doc, pageURL)

	if err := writeDocument(doc, filepath.Join(projectDir, indexFile)); err != nil {
		return nil, &ExtractionError{URL: pageURL, Err: err}
	}

	return &Result{ProjectDir: projectDir, Assets: counts}, nil
}

// createLayout creates the project directory and its asset
// subdirectories. Existing directories are reused.
func (e *Extractor) createLayout(projectDir string) error {
	for _, kind := range []Kind{KindCSS, KindJS, KindImage} {
		dir := filepath.Join(projectDir, "assets", kind.Subdir())
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return nil
}

// assetTarget describes one rewritable reference class on a page.
type assetTarget struct {
	selector string
	attr     string
	kind     Kind
	count    func(*model.AssetCounts)
}

// localizeAssets downloads every stylesheet, script, and image the page
// references and rewrites the successful ones to project-relative paths.
// References are processed in document order so asset naming is stable
// across runs.
func (e *Extractor) localizeAssets(ctx context.Context, doc *goquery.Document, pageURL, projectDir string) model.AssetCounts {
	var counts model.AssetCounts

	targets := []assetTarget{
		{"link[rel='stylesheet']", "href", KindCSS, func(c *model.AssetCounts) { c.Stylesheets++ }},
		{"script[src]", "src", KindJS, func(c *model.AssetCounts) { c.Scripts++ }},
		{"img[src]", "src", KindImage, func(c *model.AssetCounts) { c.Images++ }},
	}

	for _, target := range targets {
		doc.Find(target.selector).Each(func(_ int, s *goquery.Selection) {
			ref, ok := s.Attr(target.attr)
			if !ok || ref == "" {
				return
			}

			dir := filepath.Join(projectDir, "assets", target.kind.Subdir())
			name, err := e.assets.Download(ctx, ref, pageURL, dir, target.kind)
			if err != nil {
				// Leave the original reference untouched.
				e.logger.Warn("failed to download asset", "ref", ref, "error", err)
				counts.Failed++
				return
			}

			s.SetAttr(target.attr, path.Join("assets", target.kind.Subdir(), name))
			target.count(&counts)
		})
	}

	return counts
}

// rewriteAnchors resolves relative navigation links against the page
// URL so they keep working from the local copy. Absolute links,
// mailto:/tel: schemes, and pure in-page fragments are left as-is.
func (e *Extractor) rewriteAnchors(doc *goquery.Document, pageURL string) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || skipAnchorRewrite(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		s.SetAttr("href", base.ResolveReference(ref).String())
	})
}

// skipAnchorRewrite reports whether an href must keep its original form.
func skipAnchorRewrite(href string) bool {
	for _, prefix := range []string{"http://", "https://", "mailto:", "tel:", "#"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}
