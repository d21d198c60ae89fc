package database

import (
	"context"
	"testing"
	"time"

	"github.com/sitegrab/sitegrab/internal/model"
)

// openTestDB opens a fresh HistoryDB in a temporary directory.
func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := hdb.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return hdb
}

func testReport(target string) *model.SessionReport {
	report := model.NewSessionReport(model.ModeCrawl, target, "extracted_sites")
	report.Add(model.ExtractionRecord{
		URL:        "https://example.com/",
		ProjectDir: "extracted_sites/example_com_1",
		Duration:   120 * time.Millisecond,
		Assets:     model.AssetCounts{Stylesheets: 2, Scripts: 1, Images: 3},
	})
	report.Add(model.ExtractionRecord{
		URL:   "https://example.com/broken",
		Depth: 1,
		Error: "extract https://example.com/broken: status 500",
	})
	report.Duration = 500 * time.Millisecond
	return report
}

func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Fatal("Open() expected error for missing database")
	}
}

func TestHistoryDBSaveAndGetLatestSessionReport(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()
	report := testReport("https://example.com/")

	if err := hdb.SaveSessionReport(ctx, report); err != nil {
		t.Fatalf("SaveSessionReport() error = %v", err)
	}

	got, err := hdb.GetLatestSessionReport(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("GetLatestSessionReport() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetLatestSessionReport() = nil, want report")
	}
	if got.Mode != model.ModeCrawl {
		t.Errorf("Mode = %q, want %q", got.Mode, model.ModeCrawl)
	}
	if len(got.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(got.Records))
	}
	if got.Records[0].Assets.Images != 3 {
		t.Errorf("images = %d, want 3", got.Records[0].Assets.Images)
	}
	if got.Records[1].OK() {
		t.Error("second record should have failed")
	}
}

func TestHistoryDBGetLatestSessionReportUnknownTarget(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)

	got, err := hdb.GetLatestSessionReport(context.Background(), "https://nobody.example/")
	if err != nil {
		t.Fatalf("GetLatestSessionReport() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetLatestSessionReport() = %+v, want nil", got)
	}
}

func TestHistoryDBGetSessionHistory(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := hdb.SaveSessionReport(ctx, testReport("https://example.com/")); err != nil {
			t.Fatalf("SaveSessionReport() #%d error = %v", i, err)
		}
	}
	if err := hdb.SaveSessionReport(ctx, testReport("https://other.example/")); err != nil {
		t.Fatalf("SaveSessionReport() error = %v", err)
	}

	history, err := hdb.GetSessionHistory(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("GetSessionHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d entries, want 3", len(history))
	}
	for i, meta := range history {
		if meta.Target != "https://example.com/" {
			t.Errorf("history[%d].Target = %q", i, meta.Target)
		}
		if meta.PagesOK != 1 || meta.PagesFailed != 1 {
			t.Errorf("history[%d] counts = %d/%d, want 1/1", i, meta.PagesOK, meta.PagesFailed)
		}
	}
}

func TestHistoryDBListTargets(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()

	for _, target := range []string{"https://b.example/", "https://a.example/"} {
		if err := hdb.SaveSessionReport(ctx, testReport(target)); err != nil {
			t.Fatalf("SaveSessionReport(%s) error = %v", target, err)
		}
	}

	targets, err := hdb.ListTargets(ctx)
	if err != nil {
		t.Fatalf("ListTargets() error = %v", err)
	}

	want := []string{"https://a.example/", "https://b.example/"}
	if len(targets) != len(want) {
		t.Fatalf("targets = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("targets[%d] = %q, want %q (sorted)", i, targets[i], want[i])
		}
	}
}

func TestHistoryDBGetSessionReportByID(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()

	if err := hdb.SaveSessionReport(ctx, testReport("https://example.com/")); err != nil {
		t.Fatalf("SaveSessionReport() error = %v", err)
	}

	history, err := hdb.GetSessionHistory(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("GetSessionHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d entries, want 1", len(history))
	}

	report, err := hdb.GetSessionReportByID(ctx, history[0].ID)
	if err != nil {
		t.Fatalf("GetSessionReportByID() error = %v", err)
	}
	if report == nil {
		t.Fatal("GetSessionReportByID() = nil, want report")
	}
	if report.Target != "https://example.com/" {
		t.Errorf("Target = %q", report.Target)
	}

	missing, err := hdb.GetSessionReportByID(ctx, history[0].ID+1000)
	if err != nil {
		t.Fatalf("GetSessionReportByID() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetSessionReportByID() = %+v, want nil for missing ID", missing)
	}
}

func TestHistoryDBInsertExtractionUpserts(t *testing.T) {
	t.Parallel()

	hdb := openTestDB(t)
	ctx := context.Background()

	record := model.ExtractionRecord{URL: "https://example.com/", Error: "status 500"}
	if _, err := hdb.InsertExtraction(ctx, "https://example.com/", record); err != nil {
		t.Fatalf("InsertExtraction() error = %v", err)
	}

	// Re-running the same page overwrites the previous outcome.
	record.Error = ""
	record.ProjectDir = "extracted_sites/example_com"
	if _, err := hdb.InsertExtraction(ctx, "https://example.com/", record); err != nil {
		t.Fatalf("InsertExtraction() upsert error = %v", err)
	}

	recent, err := hdb.HasRecentExtraction(ctx, "https://example.com/", time.Hour)
	if err != nil {
		t.Fatalf("HasRecentExtraction() error = %v", err)
	}
	if !recent {
		t.Error("HasRecentExtraction() = false, want true")
	}

	recent, err = hdb.HasRecentExtraction(ctx, "https://never.example/", time.Hour)
	if err != nil {
		t.Fatalf("HasRecentExtraction() error = %v", err)
	}
	if recent {
		t.Error("HasRecentExtraction() = true for never-extracted URL")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "sqlite default", input: "2026-08-29 10:30:00", valid: true},
		{name: "iso 8601 with Z", input: "2026-08-29T10:30:00Z", valid: true},
		{name: "rfc3339", input: "2026-08-29T10:30:00+09:00", valid: true},
		{name: "garbage", input: "not a timestamp", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if tt.valid && got.IsZero() {
				t.Errorf("parseTimestamp(%q) = zero time, want parsed", tt.input)
			}
			if !tt.valid && !got.IsZero() {
				t.Errorf("parseTimestamp(%q) = %v, want zero time", tt.input, got)
			}
		})
	}
}
