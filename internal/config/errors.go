package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when none of the input modes is specified.
	ErrNoInput = errors.New("no input specified: use --url, --url-file, --crawl, or --subdomains")

	// ErrConflictingInputs is returned when more than one input mode is
	// specified. The input modes are mutually exclusive.
	ErrConflictingInputs = errors.New("conflicting inputs: --url, --url-file, --crawl, and --subdomains are mutually exclusive")

	// ErrInvalidMaxPages is returned when the page budget is negative.
	// Use 0 for an unlimited crawl.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxDepth is returned when the depth budget is negative.
	// Use 0 for an unlimited crawl.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate connection failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
