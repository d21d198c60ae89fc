package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sitegrab/sitegrab/internal/model"
)

// timeRounding keeps durations readable in terminal output.
const timeRounding = 10 * time.Millisecond

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display after a session finishes.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-page asset detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page asset counts.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the session report in human-readable format.
func (w *SimpleWriter) Write(report *model.SessionReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writePages(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes session-level information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SessionReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Extraction Report: %s\n", report.Target)
	fmt.Fprintf(sb, "Mode: %s | Started: %s | Took: %s\n",
		report.Mode,
		report.StartedAt.Format("2006-01-02 15:04:05"),
		report.Duration.Round(timeRounding),
	)
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writePages writes the per-page outcome list.
func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.SessionReport) {
	if len(report.Records) == 0 {
		sb.WriteString("No pages extracted.\n\n")
		return
	}

	for i, record := range report.Records {
		if record.OK() {
			fmt.Fprintf(sb, "  [%d] OK   %s -> %s\n", i+1, record.URL, record.ProjectDir)
			if w.verbose {
				fmt.Fprintf(sb, "        assets: %d css, %d js, %d images (%d failed)\n",
					record.Assets.Stylesheets,
					record.Assets.Scripts,
					record.Assets.Images,
					record.Assets.Failed,
				)
			}
			continue
		}
		fmt.Fprintf(sb, "  [%d] FAIL %s (%s)\n", i+1, record.URL, record.Error)
	}
	sb.WriteString("\n")
}

// writeFooter writes the summary line.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.SessionReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Pages: %d extracted, %d failed | Output: %s\n",
		report.Succeeded(),
		report.Failed(),
		report.BaseDir,
	)
}
