// Package pipeline drives whole extraction sessions over the fetcher,
// extractor, and crawler: single page, URL batch, domain crawl, and
// subdomain sweep. Each session yields a model.SessionReport with
// per-page outcomes; page failures never abort a session.
package pipeline
