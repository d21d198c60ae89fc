package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitegrab/sitegrab/internal/crawler"
	"github.com/sitegrab/sitegrab/internal/extractor"
	"github.com/sitegrab/sitegrab/internal/fetcher"
	"github.com/sitegrab/sitegrab/internal/model"
)

// Runner drives whole extraction sessions: one page, a URL list, a
// domain crawl, or a subdomain sweep. Every session produces a
// model.SessionReport regardless of how many pages inside it failed.
//
// Design decision: The Runner never returns page-level errors. Page
// failures are ordinary records inside the report; only input-level
// problems (an unreadable URL list, an invalid start URL, cancellation)
// surface as errors, because only those make the whole session
// meaningless.
type Runner struct {
	// fetcher probes subdomain candidates.
	fetcher *fetcher.Fetcher

	// extractor persists single pages.
	extractor *extractor.Extractor

	// crawler walks domains breadth-first.
	crawler *crawler.Crawler

	// baseDir is the base output directory recorded on reports.
	baseDir string

	// logger records session progress.
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Runner from the session's shared components.
func New(f *fetcher.Fetcher, e *extractor.Extractor, c *crawler.Crawler, baseDir string, opts ...Option) *Runner {
	r := &Runner{
		fetcher:   f,
		extractor: e,
		crawler:   c,
		baseDir:   baseDir,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ExtractOne extracts a single page into its own project.
func (r *Runner) ExtractOne(ctx context.Context, pageURL, projectName string) (*model.SessionReport, error) {
	report := model.NewSessionReport(model.ModeSingle, pageURL, r.baseDir)
	report.Add(r.extractPage(ctx, pageURL, projectName, 0))
	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// ExtractBatch extracts each URL in order, one project per URL. When
// projectName is non-empty, projects are numbered by 1-based input
// position (projectName_1, projectName_2, ...), so a failed URL still
// consumes its number. Failures are recorded and the batch continues.
func (r *Runner) ExtractBatch(ctx context.Context, urls []string, projectName string) (*model.SessionReport, error) {
	target := fmt.Sprintf("%d urls", len(urls))
	report := model.NewSessionReport(model.ModeBatch, target, r.baseDir)

	for i, pageURL := range urls {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		name := ""
		if projectName != "" {
			name = fmt.Sprintf("%s_%d", projectName, i+1)
		}

		report.Add(r.extractPage(ctx, pageURL, name, 0))
		r.logger.Info("batch progress", "completed", i+1, "total", len(urls), "url", pageURL)
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// CrawlDomain walks the start URL's domain breadth-first within budget.
func (r *Runner) CrawlDomain(ctx context.Context, startURL, projectName string, budget crawler.Budget) (*model.SessionReport, error) {
	report := model.NewSessionReport(model.ModeCrawl, startURL, r.baseDir)

	records, err := r.crawler.Crawl(ctx, startURL, projectName, budget)
	for _, record := range records {
		report.Add(record)
	}
	report.Duration = time.Since(report.StartedAt)

	if err != nil {
		return report, err
	}
	return report, nil
}

// extractPage runs one extraction and folds the outcome into a record.
func (r *Runner) extractPage(ctx context.Context, pageURL, projectName string, depth int) model.ExtractionRecord {
	began := time.Now()
	record := model.ExtractionRecord{URL: pageURL, Depth: depth}

	result, err := r.extractor.Extract(ctx, pageURL, projectName)
	record.Duration = time.Since(began)
	if err != nil {
		r.logger.Error("failed to extract page", "url", pageURL, "error", err)
		record.Error = err.Error()
		return record
	}

	record.ProjectDir = result.ProjectDir
	record.Assets = result.Assets
	return record
}
