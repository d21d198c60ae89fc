// Package main provides the entry point for the sitegrab CLI.
//
// sitegrab extracts websites for offline use: single pages, URL lists,
// breadth-first domain crawls, and subdomain sweeps. Each extracted page
// becomes a self-contained project directory with localized assets.
//
// Usage:
//
//	sitegrab --url https://example.com
//	sitegrab --crawl https://example.com --max-pages 10 --max-depth 2
//
// See --help for all available options.
package main

// main is the entry point for sitegrab.
func main() {
	Execute()
}
