package pipeline

import (
	"context"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitegrab/sitegrab/internal/model"
)

// commonSubdomains are the labels probed during a subdomain sweep, in
// probe order. The bare domain is always tried last.
var commonSubdomains = []string{"www", "blog", "docs", "api", "support", "help"}

// schemePrefix strips an explicit scheme from a user-supplied domain.
var schemePrefix = regexp.MustCompile(`^https?://`)

// ExtractSubdomains probes common subdomains of domain and batch
// extracts the ones that answer. Candidates are probed concurrently
// but survivors keep candidate order, so output numbering is stable
// for a given set of live subdomains.
func (r *Runner) ExtractSubdomains(ctx context.Context, domain, projectName string) (*model.SessionReport, error) {
	cleanDomain := schemePrefix.ReplaceAllString(domain, "")

	candidates := make([]string, 0, len(commonSubdomains)+1)
	for _, label := range commonSubdomains {
		candidates = append(candidates, "https://"+label+"."+cleanDomain)
	}
	candidates = append(candidates, "https://"+cleanDomain)

	liveURLs, err := r.probeAll(ctx, candidates)
	if err != nil {
		return nil, err
	}

	report, err := r.ExtractBatch(ctx, liveURLs, projectName)
	if err != nil {
		return report, err
	}

	// The batch target says "N urls"; the sweep's real input is the domain.
	report.Mode = model.ModeSubdomains
	report.Target = domain
	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// probeAll checks all candidate URLs concurrently and returns the live
// ones in candidate order.
func (r *Runner) probeAll(ctx context.Context, candidates []string) ([]string, error) {
	alive := make([]bool, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	for i, candidate := range candidates {
		g.Go(func() error {
			alive[i] = r.fetcher.Probe(ctx, candidate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	live := make([]string, 0, len(candidates))
	for i, candidate := range candidates {
		if !alive[i] {
			continue
		}
		r.logger.Info("found live subdomain", "url", candidate)
		live = append(live, candidate)
	}
	return live, nil
}
