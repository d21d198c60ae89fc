package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitegrab/sitegrab/internal/config"
)

// NewRootCmd creates the root command for sitegrab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitegrab",
		Short: "Extract websites into self-contained local copies",
		Long: `sitegrab downloads web pages together with their stylesheets, scripts,
and images, rewriting references so each page renders offline from its
own project directory.

Four input modes are available (exactly one must be given):
  --url         extract a single page
  --url-file    extract every URL listed in a file (one per line)
  --crawl       walk a whole domain breadth-first from a start URL
  --subdomains  probe common subdomains of a domain and extract the live ones

Examples:
  # Extract a single page
  sitegrab --url https://example.com

  # Extract a list of URLs with numbered project names
  sitegrab --url-file urls.txt --output mysite

  # Crawl a domain, at most 10 pages and 2 link hops
  sitegrab --crawl https://example.com --max-pages 10 --max-depth 2

  # Probe and extract common subdomains
  sitegrab --subdomains example.com

  # Write a JSON session report to a file
  sitegrab --crawl https://example.com --json --report report.json

Configuration file (.sitegrab) example:
  sites:
    docs.example.com:
      headers:
        Authorization: "Bearer token"
      maxPages: 50`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Input modes (mutually exclusive)
	cmd.Flags().StringP("url", "u", "", "Extract a single page")
	cmd.Flags().String("url-file", "", "Extract every URL listed in a file, one per line")
	cmd.Flags().String("crawl", "", "Crawl a domain breadth-first from this start URL")
	cmd.Flags().String("subdomains", "", "Probe common subdomains of this domain and extract the live ones")
	cmd.MarkFlagsMutuallyExclusive("url", "url-file", "crawl", "subdomains")

	// Output layout
	cmd.Flags().StringP("output", "o", "",
		"Project name (derived from each page's host when omitted)")
	cmd.Flags().StringP("base-dir", "b", config.DefaultBaseDir,
		"Base directory for extracted projects")

	// Crawl budgets
	cmd.Flags().IntP("max-pages", "p", 0,
		"Maximum pages to extract during a crawl (0 = unlimited)")
	cmd.Flags().IntP("max-depth", "d", 0,
		"Maximum link hops from the start URL (0 = unlimited)")

	// Fetch behavior
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitegrab in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON session report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown session report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write the session report to this file path instead of stdout")

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
