// Package config provides configuration structures and utilities for sitegrab.
// It defines the main configuration options for extraction, crawling limits,
// per-site overrides, and report generation preferences.
package config
