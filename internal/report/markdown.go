package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/sitegrab/sitegrab/internal/model"
)

// MarkdownWriter outputs session reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the session report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SessionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writePages(md, report)
	w.writeSummary(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the session-level information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SessionReport) {
	md.H1("Extraction Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Mode", string(report.Mode)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.Round(timeRounding).String()},
			{"Output Directory", "`" + report.BaseDir + "`"},
		},
	})
	md.PlainText("")
}

// writePages writes the per-page outcome table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.SessionReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Records) == 0 {
		md.PlainText("No pages extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Records))
	for _, record := range report.Records {
		status := "✅ OK"
		detail := "`" + record.ProjectDir + "`"
		if !record.OK() {
			status = "❌ Failed"
			detail = record.Error
		}
		rows = append(rows, []string{
			record.URL,
			status,
			strconv.Itoa(record.Assets.Total()),
			detail,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Assets", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the closing totals table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.SessionReport) {
	md.H2("Summary")
	md.PlainText("")

	var assets model.AssetCounts
	for _, record := range report.Records {
		assets.Stylesheets += record.Assets.Stylesheets
		assets.Scripts += record.Assets.Scripts
		assets.Images += record.Assets.Images
		assets.Failed += record.Assets.Failed
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages extracted", strconv.Itoa(report.Succeeded())},
			{"Pages failed", strconv.Itoa(report.Failed())},
			{"Stylesheets", strconv.Itoa(assets.Stylesheets)},
			{"Scripts", strconv.Itoa(assets.Scripts)},
			{"Images", strconv.Itoa(assets.Images)},
			{"Failed assets", strconv.Itoa(assets.Failed)},
		},
	})
}
