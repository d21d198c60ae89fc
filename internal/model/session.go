package model

import "time"

// Mode identifies how an extraction session was started.
type Mode string

// Extraction session modes.
const (
	// ModeSingle extracts exactly one page.
	ModeSingle Mode = "single"

	// ModeBatch extracts a caller-supplied list of URLs.
	ModeBatch Mode = "batch"

	// ModeCrawl walks a domain breadth-first from a start URL.
	ModeCrawl Mode = "crawl"

	// ModeSubdomains probes common subdomains and batch-extracts the live ones.
	ModeSubdomains Mode = "subdomains"
)

// AssetCounts tallies localized assets for one extracted page.
type AssetCounts struct {
	// Stylesheets is the number of stylesheet files downloaded.
	Stylesheets int `json:"stylesheets"`

	// Scripts is the number of script files downloaded.
	Scripts int `json:"scripts"`

	// Images is the number of image files downloaded.
	Images int `json:"images"`

	// Failed is the number of asset references left untouched because
	// the download failed.
	Failed int `json:"failed"`
}

// Total returns the number of successfully localized assets.
func (a AssetCounts) Total() int {
	return a.Stylesheets + a.Scripts + a.Images
}

// ExtractionRecord is the per-page outcome of an extraction session.
//
// Design decision: We record failures as ordinary values rather than
// propagating errors because:
//  1. A single broken page must never abort a batch or crawl session
//  2. Drivers pattern-match on Error instead of catching exceptions
//  3. Reports can show partial results alongside failures
type ExtractionRecord struct {
	// URL is the page that was extracted (or attempted).
	URL string `json:"url"`

	// ProjectDir is the directory the page was persisted to.
	// Empty when the extraction failed.
	ProjectDir string `json:"projectDir,omitempty"`

	// Depth is the crawl depth the page was discovered at.
	// Always zero outside crawl mode.
	Depth int `json:"depth"`

	// Duration is how long the extraction took.
	Duration time.Duration `json:"duration"`

	// Assets counts the localized assets for this page.
	Assets AssetCounts `json:"assets"`

	// Error holds the failure message when the extraction failed.
	Error string `json:"error,omitempty"`
}

// OK reports whether the page was extracted successfully.
func (r ExtractionRecord) OK() bool {
	return r.Error == ""
}

// SessionReport aggregates the outcome of one extraction session.
// One report is produced per CLI invocation, persisted to the history
// database, and rendered by the report writers.
type SessionReport struct {
	// Mode is how the session was started.
	Mode Mode `json:"mode"`

	// Target is the primary input: the URL, start URL, list file, or domain.
	Target string `json:"target"`

	// BaseDir is the base output directory for all projects.
	BaseDir string `json:"baseDir"`

	// StartedAt is when the session began.
	StartedAt time.Time `json:"startedAt"`

	// Duration is the total session wall time.
	Duration time.Duration `json:"duration"`

	// Records holds per-page outcomes in completion order.
	Records []ExtractionRecord `json:"records"`
}

// NewSessionReport creates an empty report for the given mode and target.
func NewSessionReport(mode Mode, target, baseDir string) *SessionReport {
	return &SessionReport{
		Mode:      mode,
		Target:    target,
		BaseDir:   baseDir,
		StartedAt: time.Now(),
		Records:   make([]ExtractionRecord, 0),
	}
}

// Add appends a per-page record to the report.
func (s *SessionReport) Add(record ExtractionRecord) {
	s.Records = append(s.Records, record)
}

// OutputDirs returns the project directories of successful extractions,
// in completion order.
func (s *SessionReport) OutputDirs() []string {
	dirs := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		if r.OK() {
			dirs = append(dirs, r.ProjectDir)
		}
	}
	return dirs
}

// Succeeded returns the number of successfully extracted pages.
func (s *SessionReport) Succeeded() int {
	n := 0
	for _, r := range s.Records {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed extractions.
func (s *SessionReport) Failed() int {
	return len(s.Records) - s.Succeeded()
}
