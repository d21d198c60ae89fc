// Package database provides SQLite-backed persistence for extraction
// history: per-page outcomes and whole session reports, queryable by
// target for the history command.
package database
