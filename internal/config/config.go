package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of typical site-mirroring tools: generous
// page timeouts, a short probe timeout, and a browser-like User-Agent.
const (
	// DefaultBaseDir is the base directory for all extracted sites.
	// Projects are created directly beneath it, one per extracted page.
	DefaultBaseDir = "extracted_sites"

	// DefaultTimeout is the connection timeout for page and asset fetches.
	// 30 seconds is enough for slow origins without hanging a batch run.
	DefaultTimeout = 30 * time.Second

	// DefaultProbeTimeout is the timeout for subdomain existence probes.
	// Probes are HEAD requests that download no body, so a short timeout
	// keeps the subdomain scan fast even when most candidates are dead.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 10MB covers real-world pages and assets while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent identifies sitegrab in HTTP requests.
	DefaultUserAgent = "sitegrab/1.0 (+https://github.com/sitegrab/sitegrab)"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitegrab"
)

// Config holds all configuration options for sitegrab.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// URL is a single page to extract. Mutually exclusive with URLFile,
	// CrawlURL, and SubdomainsOf.
	URL string

	// URLFile is a path to a file with one URL per line for batch extraction.
	URLFile string

	// CrawlURL is the start URL for a breadth-first domain crawl.
	CrawlURL string

	// SubdomainsOf is a bare domain whose common subdomains are probed
	// and extracted.
	SubdomainsOf string

	// OutputName is the caller-supplied project name. When empty, project
	// names are derived from each page's host.
	OutputName string

	// BaseDir is the base output directory for all extractions.
	BaseDir string

	// MaxPages limits the number of pages extracted during a crawl.
	// Zero means unlimited.
	MaxPages int

	// MaxDepth limits how deep a crawl follows links from the start URL.
	// Zero means unlimited; the start page itself is depth 0.
	MaxDepth int

	// Timeout is the connection timeout for each page or asset fetch.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitegrab in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON session report output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown session report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the session report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to record sessions in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		BaseDir:     DefaultBaseDir,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for sitegrab.
// On Linux: ~/.local/share/sitegrab
// On macOS: ~/Library/Application Support/sitegrab
// On Windows: %LOCALAPPDATA%\sitegrab
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitegrab.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// modeCount returns how many of the mutually exclusive input modes are set.
func (c *Config) modeCount() int {
	n := 0
	for _, v := range []string{c.URL, c.URLFile, c.CrawlURL, c.SubdomainsOf} {
		if v != "" {
			n++
		}
	}
	return n
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any extraction begins.
func (c *Config) Validate() error {
	switch c.modeCount() {
	case 0:
		return ErrNoInput
	case 1:
		// exactly one mode, OK
	default:
		return ErrConflictingInputs
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
