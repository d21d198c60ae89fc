package fetcher

import "fmt"

// FetchError reports a transport failure or a non-2xx HTTP status.
// A FetchError aborts the extraction of the page it occurred on, but
// never an entire crawl or batch session.
type FetchError struct {
	// URL is the URL that failed to fetch.
	URL string

	// StatusCode is the HTTP status when the server responded with
	// a non-2xx status. Zero for transport failures.
	StatusCode int

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports that a response body could not be read or decoded
// into a document. Recoverable malformed markup is not a ParseError;
// the parser handles it leniently.
type ParseError struct {
	// URL is the URL of the document that failed to parse.
	URL string

	// Err is the underlying decode or read error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
