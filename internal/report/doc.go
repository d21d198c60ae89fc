// Package report renders session reports in multiple formats: plain
// text for terminals, JSON for tool integration, and Markdown for
// documentation. All writers implement the same Writer interface and
// can be combined with MultiWriter.
package report
