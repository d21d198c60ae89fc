package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.BaseDir != DefaultBaseDir {
		t.Errorf("expected base dir %q, got %q", DefaultBaseDir, cfg.BaseDir)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected max body size %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
	}
	if cfg.UserAgent == "" {
		t.Error("expected non-empty default user agent")
	}
	if cfg.MaxPages != 0 || cfg.MaxDepth != 0 {
		t.Error("expected unlimited budgets by default")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.URL = "https://example.com"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid single URL config",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "no input",
			mutate:  func(c *Config) { c.URL = "" },
			wantErr: ErrNoInput,
		},
		{
			name:    "two inputs",
			mutate:  func(c *Config) { c.CrawlURL = "https://example.org" },
			wantErr: ErrConflictingInputs,
		},
		{
			name:    "all four inputs",
			mutate: func(c *Config) {
				c.URLFile = "urls.txt"
				c.CrawlURL = "https://example.org"
				c.SubdomainsOf = "example.net"
			},
			wantErr: ErrConflictingInputs,
		},
		{
			name:    "negative max pages",
			mutate:  func(c *Config) { c.MaxPages = -1 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "negative max depth",
			mutate:  func(c *Config) { c.MaxDepth = -2 },
			wantErr: ErrInvalidMaxDepth,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "conflicting report formats",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads sites and defaults", func(t *testing.T) {
		t.Parallel()

		content := `defaults:
  userAgent: "custom-agent/1.0"
sites:
  docs.example.com:
    maxDepth: 3
    headers:
      Authorization: "Bearer token123"
  blog.example.com:
    maxPages: 10
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if len(cf.Sites) != 2 {
			t.Errorf("expected 2 sites, got %d", len(cf.Sites))
		}
		if cf.Defaults.UserAgent != "custom-agent/1.0" {
			t.Errorf("unexpected default user agent %q", cf.Defaults.UserAgent)
		}
		if cf.Sites["docs.example.com"].MaxDepth != 3 {
			t.Errorf("expected maxDepth 3, got %d", cf.Sites["docs.example.com"].MaxDepth)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("empty file initializes sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected initialized sites map")
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path found", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "my.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path missing returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestGetSiteConfig tests merging of site-specific and default configs.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			UserAgent: "default-agent",
			MaxDepth:  2,
			Headers:   map[string]string{"X-Base": "1"},
		},
		Sites: map[string]SiteConfig{
			"docs.example.com": {
				MaxDepth: 5,
				Headers:  map[string]string{"Authorization": "Bearer abc"},
			},
		},
	}

	t.Run("site overrides defaults", func(t *testing.T) {
		t.Parallel()

		got := cf.GetSiteConfig("docs.example.com")
		if got.MaxDepth != 5 {
			t.Errorf("expected maxDepth 5, got %d", got.MaxDepth)
		}
		if got.UserAgent != "default-agent" {
			t.Errorf("expected inherited user agent, got %q", got.UserAgent)
		}
		if got.Headers["Authorization"] != "Bearer abc" {
			t.Error("expected site header to be merged in")
		}
	})

	t.Run("unknown site gets defaults", func(t *testing.T) {
		t.Parallel()

		got := cf.GetSiteConfig("unknown.example.com")
		if got.MaxDepth != 2 {
			t.Errorf("expected default maxDepth 2, got %d", got.MaxDepth)
		}
	})
}

// TestXDGDirs tests that XDG helpers return paths ending with the app name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("expected data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}

// TestDefaultProbeTimeout documents the probe timeout contract.
func TestDefaultProbeTimeout(t *testing.T) {
	t.Parallel()

	if DefaultProbeTimeout != 5*time.Second {
		t.Errorf("expected 5s probe timeout, got %v", DefaultProbeTimeout)
	}
}
