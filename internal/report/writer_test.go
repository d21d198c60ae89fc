package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sitegrab/sitegrab/internal/model"
)

func testReport() *model.SessionReport {
	report := model.NewSessionReport(model.ModeBatch, "urls.txt", "extracted_sites")
	report.StartedAt = time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	report.Duration = 1400 * time.Millisecond
	report.Add(model.ExtractionRecord{
		URL:        "https://example.com/",
		ProjectDir: "extracted_sites/site_1",
		Duration:   700 * time.Millisecond,
		Assets:     model.AssetCounts{Stylesheets: 2, Scripts: 1, Images: 4},
	})
	report.Add(model.ExtractionRecord{
		URL:   "https://broken.example/",
		Error: "extract https://broken.example/: status 500",
	})
	return report
}

func TestSimpleWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.Write(testReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() = %d bytes, buffer has %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"Extraction Report: urls.txt",
		"Mode: batch",
		"OK   https://example.com/ -> extracted_sites/site_1",
		"FAIL https://broken.example/",
		"Pages: 1 extracted, 1 failed",
		"Output: extracted_sites",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSimpleWriterWriteVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.Contains(buf.String(), "assets: 2 css, 1 js, 4 images (0 failed)") {
		t.Error("verbose output missing per-page asset counts")
	}
}

func TestSimpleWriterWriteEmptyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	report := model.NewSessionReport(model.ModeSingle, "https://example.com/", "extracted_sites")
	if _, err := w.Write(report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No pages extracted.") {
		t.Error("output missing empty-report notice")
	}
}

func TestJSONWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded model.SessionReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Mode != model.ModeBatch {
		t.Errorf("Mode = %q, want %q", decoded.Mode, model.ModeBatch)
	}
	if len(decoded.Records) != 2 {
		t.Errorf("records = %d, want 2", len(decoded.Records))
	}
	if decoded.Records[0].Assets.Images != 4 {
		t.Errorf("images = %d, want 4", decoded.Records[0].Assets.Images)
	}
}

func TestJSONWriterWritePretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n  \"mode\"") {
		t.Error("pretty output should be indented")
	}

	var decoded model.SessionReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("pretty output is not valid JSON: %v", err)
	}
}

func TestMarkdownWriterWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Extraction Report",
		"## Pages",
		"## Summary",
		"`urls.txt`",
		"https://example.com/",
		"❌ Failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestMultiWriterWrite(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	total, err := mw.Write(testReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if total != text.Len()+js.Len() {
		t.Errorf("total = %d, want %d", total, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("both writers should have received output")
	}
}

// failWriter always fails after writing nothing.
type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriterStopsOnError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(failWriter{}), NewSimpleWriter(&buf))

	if _, err := mw.Write(testReport()); err == nil {
		t.Fatal("Write() expected error from failing writer")
	}
	if buf.Len() != 0 {
		t.Error("second writer should not run after first fails")
	}
}
