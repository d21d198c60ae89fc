package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sitegrab/sitegrab/internal/model"
)

// HistoryDB provides SQLite-based storage for extraction history and
// session reports.
//
// Design decision: We use a single database file for all targets rather
// than one file per site. This keeps "what did I extract and when"
// queries trivial and makes backup/restore a single-file operation.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "sitegrab.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Extractions store individual page outcomes
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		target TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		project_dir TEXT,
		depth INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		stylesheets INTEGER DEFAULT 0,
		scripts INTEGER DEFAULT 0,
		images INTEGER DEFAULT 0,
		failed_assets INTEGER DEFAULT 0,
		error TEXT,
		UNIQUE(url, target)
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_url ON extractions(url);
	CREATE INDEX IF NOT EXISTS idx_extractions_target ON extractions(target);
	CREATE INDEX IF NOT EXISTS idx_extractions_timestamp ON extractions(timestamp);

	-- Session reports store complete session results as JSON
	CREATE TABLE IF NOT EXISTS session_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		mode TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		pages_ok INTEGER DEFAULT 0,
		pages_failed INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_reports_target ON session_reports(target);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON session_reports(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertExtraction inserts or updates a per-page extraction record.
// Uses UPSERT to handle duplicates (same URL + target), so re-running a
// session refreshes the stored outcome for each page.
func (hdb *HistoryDB) InsertExtraction(ctx context.Context, target string, record model.ExtractionRecord) (int64, error) {
	query := `
	INSERT INTO extractions (url, target, project_dir, depth, duration_ms, stylesheets, scripts, images, failed_assets, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, target) DO UPDATE SET
		project_dir = excluded.project_dir,
		depth = excluded.depth,
		duration_ms = excluded.duration_ms,
		stylesheets = excluded.stylesheets,
		scripts = excluded.scripts,
		images = excluded.images,
		failed_assets = excluded.failed_assets,
		error = excluded.error,
		timestamp = CURRENT_TIMESTAMP
	`

	result, err := hdb.db.ExecContext(ctx, query,
		record.URL,
		target,
		record.ProjectDir,
		record.Depth,
		record.Duration.Milliseconds(),
		record.Assets.Stylesheets,
		record.Assets.Scripts,
		record.Assets.Images,
		record.Assets.Failed,
		record.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert extraction: %w", err)
	}

	return result.LastInsertId()
}

// HasRecentExtraction checks if a URL was extracted within the specified duration.
func (hdb *HistoryDB) HasRecentExtraction(ctx context.Context, url string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM extractions
	WHERE url = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	if err := hdb.db.QueryRowContext(ctx, query, url, modifier).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent extraction: %w", err)
	}

	return count > 0, nil
}

// SaveSessionReport persists a complete session report, both as JSON
// and as per-page extraction rows.
func (hdb *HistoryDB) SaveSessionReport(ctx context.Context, report *model.SessionReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO session_reports (target, mode, report_json, pages_ok, pages_failed)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.Target,
		string(report.Mode),
		string(reportJSON),
		report.Succeeded(),
		report.Failed(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session report: %w", err)
	}

	for _, record := range report.Records {
		if _, err := hdb.InsertExtraction(ctx, report.Target, record); err != nil {
			return err
		}
	}

	return nil
}

// GetLatestSessionReport retrieves the most recent session report for a target.
// Returns nil without error when the target has no history.
func (hdb *HistoryDB) GetLatestSessionReport(ctx context.Context, target string) (*model.SessionReport, error) {
	query := `
	SELECT report_json FROM session_reports
	WHERE target = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, target).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session report: %w", err)
	}

	var report model.SessionReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListTargets returns every target with stored session history, sorted.
func (hdb *HistoryDB) ListTargets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT target FROM session_reports
	ORDER BY target
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows close

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// SessionMetadata contains summary information about a stored session.
// This is used for displaying history without loading full reports.
type SessionMetadata struct {
	// ID is the unique identifier of the session report in the database.
	ID int64

	// Target is the session's primary input.
	Target string

	// Mode is how the session was started.
	Mode model.Mode

	// Timestamp is when the session was stored.
	Timestamp time.Time

	// PagesOK is the number of successfully extracted pages.
	PagesOK int

	// PagesFailed is the number of failed extractions.
	PagesFailed int
}

// GetSessionHistory retrieves session metadata for a target, newest first.
func (hdb *HistoryDB) GetSessionHistory(ctx context.Context, target string) ([]SessionMetadata, error) {
	query := `
	SELECT id, target, mode, timestamp, pages_ok, pages_failed
	FROM session_reports
	WHERE target = ?
	ORDER BY timestamp DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get session history: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows close

	var results []SessionMetadata
	for rows.Next() {
		var meta SessionMetadata
		var mode string
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.Target, &mode, &timestamp, &meta.PagesOK, &meta.PagesFailed); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Mode = model.Mode(mode)
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetSessionReportByID retrieves a full session report by its database ID.
// Returns nil without error when no such row exists.
func (hdb *HistoryDB) GetSessionReportByID(ctx context.Context, id int64) (*model.SessionReport, error) {
	query := `
	SELECT report_json FROM session_reports
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session report: %w", err)
	}

	var report model.SessionReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
