// Package fetcher provides HTTP retrieval of pages and assets.
//
// The Fetcher parses HTML responses into goquery documents that callers
// can query by tag and attribute and mutate in place. It also exposes a
// raw byte fetch for asset downloads and a lightweight HEAD probe used
// by the subdomain scanner.
//
// There are no retries: a failed fetch fails only the page it belongs
// to, and drivers decide whether to continue.
package fetcher
