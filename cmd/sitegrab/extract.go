package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sitegrab/sitegrab/internal/config"
	"github.com/sitegrab/sitegrab/internal/crawler"
	"github.com/sitegrab/sitegrab/internal/database"
	"github.com/sitegrab/sitegrab/internal/extractor"
	"github.com/sitegrab/sitegrab/internal/fetcher"
	"github.com/sitegrab/sitegrab/internal/log"
	"github.com/sitegrab/sitegrab/internal/model"
	"github.com/sitegrab/sitegrab/internal/pipeline"
	"github.com/sitegrab/sitegrab/internal/report"
)

// runRootCmd executes an extraction session from root command flags.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSession(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.URL, err = cmd.Flags().GetString("url"); err != nil {
		return nil, err
	}
	if cfg.URLFile, err = cmd.Flags().GetString("url-file"); err != nil {
		return nil, err
	}
	if cfg.CrawlURL, err = cmd.Flags().GetString("crawl"); err != nil {
		return nil, err
	}
	if cfg.SubdomainsOf, err = cmd.Flags().GetString("subdomains"); err != nil {
		return nil, err
	}
	if cfg.OutputName, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.BaseDir, err = cmd.Flags().GetString("base-dir"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations.
	// An explicitly specified config file must exist; the implicit
	// .sitegrab lookup is allowed to come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	// Always record sessions using the XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runSession runs the configured extraction session end to end.
func runSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			// History is a convenience; the extraction itself still runs.
			logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close() //nolint:errcheck // best effort close on exit
		}
	}

	runner := newRunner(cfg, logger)

	sessionReport, err := runSessionMode(ctx, cfg, runner)
	if err != nil {
		return err
	}

	if err := outputReport(cfg, sessionReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if db != nil {
		if err := db.SaveSessionReport(ctx, sessionReport); err != nil {
			logger.Error("failed to save session to history", "error", err)
		}
	}

	return nil
}

// newRunner builds the fetcher/extractor/crawler stack for the session,
// applying any per-site configuration for the target host.
func newRunner(cfg *config.Config, logger *slog.Logger) *pipeline.Runner {
	target := sessionTarget(cfg)
	siteConfig := cfg.SiteConfigs.GetSiteConfig(targetHost(target))

	// Site-specific budgets override the flags
	if siteConfig.MaxPages > 0 {
		cfg.MaxPages = siteConfig.MaxPages
	}
	if siteConfig.MaxDepth > 0 {
		cfg.MaxDepth = siteConfig.MaxDepth
	}

	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}

	client := &http.Client{Timeout: cfg.Timeout}
	f := fetcher.New(client,
		fetcher.WithUserAgent(userAgent),
		fetcher.WithHeaders(siteConfig.Headers),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithProbeTimeout(config.DefaultProbeTimeout),
	)
	e := extractor.New(f, cfg.BaseDir, extractor.WithLogger(logger))
	c := crawler.New(f, e, crawler.WithLogger(logger))

	return pipeline.New(f, e, c, cfg.BaseDir, pipeline.WithLogger(logger))
}

// runSessionMode dispatches to the configured input mode.
func runSessionMode(ctx context.Context, cfg *config.Config, runner *pipeline.Runner) (*model.SessionReport, error) {
	switch {
	case cfg.URL != "":
		return runner.ExtractOne(ctx, ensureScheme(cfg.URL), cfg.OutputName)
	case cfg.URLFile != "":
		urls, err := readURLFile(cfg.URLFile)
		if err != nil {
			return nil, err
		}
		return runner.ExtractBatch(ctx, urls, cfg.OutputName)
	case cfg.CrawlURL != "":
		budget := crawler.Budget{MaxPages: cfg.MaxPages, MaxDepth: cfg.MaxDepth}
		return runner.CrawlDomain(ctx, ensureScheme(cfg.CrawlURL), cfg.OutputName, budget)
	default:
		return runner.ExtractSubdomains(ctx, cfg.SubdomainsOf, cfg.OutputName)
	}
}

// sessionTarget returns the session's primary input value.
func sessionTarget(cfg *config.Config) string {
	for _, v := range []string{cfg.URL, cfg.CrawlURL, cfg.SubdomainsOf} {
		if v != "" {
			return v
		}
	}
	return ""
}

// targetHost extracts the bare host used to look up site configuration.
func targetHost(target string) string {
	if target == "" {
		return ""
	}
	u, err := url.Parse(ensureScheme(target))
	if err != nil {
		return target
	}
	return u.Host
}

// ensureScheme prefixes bare hosts with https:// so users can type
// "example.com" instead of a full URL.
func ensureScheme(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file close

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, ensureScheme(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	return urls, nil
}

// outputReport writes the session report: always a text summary to
// stdout, plus the requested JSON or Markdown format to stdout or the
// report file.
func outputReport(cfg *config.Config, sessionReport *model.SessionReport) error {
	summary := report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose))
	if _, err := summary.Write(sessionReport); err != nil {
		return err
	}

	if !cfg.JSONReport && !cfg.MarkdownReport {
		return nil
	}

	out := os.Stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return err
			}
		}
		file, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return err
		}
		defer file.Close() //nolint:errcheck // flushed by Write below
		out = file
	}

	var formatted report.Writer
	if cfg.JSONReport {
		formatted = report.NewJSONWriter(out, report.WithPrettyPrint())
	} else {
		formatted = report.NewMarkdownWriter(out)
	}

	_, err := formatted.Write(sessionReport)
	return err
}
