package extractor

import (
	"errors"
	"fmt"
)

// errInvalidProjectURL rejects page URLs that yield no project name.
var errInvalidProjectURL = errors.New("url has no host to derive a project name from")

// ExtractionError wraps any failure during a single page's extraction.
// One ExtractionError fails one page; crawl and batch drivers log it
// and continue with the next entry.
type ExtractionError struct {
	// URL is the page whose extraction failed.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AssetError reports a failed asset download. Asset failures never
// abort page extraction; the original reference is left untouched.
type AssetError struct {
	// Ref is the raw asset reference from the page.
	Ref string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Ref, e.Err)
}

// Unwrap returns the underlying error.
func (e *AssetError) Unwrap() error {
	return e.Err
}
