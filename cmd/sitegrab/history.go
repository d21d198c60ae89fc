package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitegrab/sitegrab/internal/config"
	"github.com/sitegrab/sitegrab/internal/database"
)

// NewHistoryCmd creates the history command.
// This command browses past extraction sessions stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "Browse past extraction sessions",
		Long: `History lists past extraction sessions recorded in the local database.

Every sitegrab run stores a session report: which pages were extracted,
where they were written, and what failed. This command retrieves that
history per target.

Examples:
  # List sessions for a target
  sitegrab history https://example.com

  # List all recorded targets
  sitegrab history --list-targets

  # Show the full report of a specific session by ID
  sitegrab history --id 5 https://example.com

  # Output a full report in JSON format
  sitegrab history --id 5 --json https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-targets", "L", false,
		"List all recorded targets in the database")
	cmd.Flags().Int64P("id", "i", 0,
		"Show the full session report with this ID (use the list output to find IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output full session reports in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listTargets, err := cmd.Flags().GetBool("list-targets")
	if err != nil {
		return err
	}

	var target string
	if !listTargets {
		if len(args) == 0 {
			return errors.New("target required (or use --list-targets to see recorded targets)")
		}
		target = args[0]
	}

	// History never creates the database: no sessions means no history.
	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no extraction history found (run an extraction first): %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only close on exit

	ctx := context.Background()

	if listTargets {
		return printTargets(ctx, cmd, db)
	}

	sessionID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if sessionID > 0 {
		return printSessionByID(ctx, cmd, db, sessionID, asJSON)
	}

	return printHistory(ctx, cmd, db, target)
}

// printTargets lists every target with recorded sessions.
func printTargets(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded targets.")
		return nil
	}

	for _, target := range targets {
		fmt.Fprintln(cmd.OutOrStdout(), target)
	}
	return nil
}

// printHistory lists session metadata for one target, newest first.
func printHistory(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, target string) error {
	history, err := db.GetSessionHistory(ctx, target)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No sessions recorded for %s\n", target)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sessions for %s:\n\n", target)
	fmt.Fprintf(out, "%-6s %-20s %-12s %8s %8s\n", "ID", "Date", "Mode", "OK", "Failed")
	fmt.Fprintln(out, strings.Repeat("-", 58))
	for _, meta := range history {
		fmt.Fprintf(out, "%-6d %-20s %-12s %8d %8d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Mode,
			meta.PagesOK,
			meta.PagesFailed,
		)
	}
	return nil
}

// printSessionByID shows one full session report.
func printSessionByID(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, id int64, asJSON bool) error {
	sessionReport, err := db.GetSessionReportByID(ctx, id)
	if err != nil {
		return err
	}
	if sessionReport == nil {
		return fmt.Errorf("no session with ID %d", id)
	}

	if asJSON {
		data, err := json.MarshalIndent(sessionReport, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %d: %s (%s)\n", id, sessionReport.Target, sessionReport.Mode)
	fmt.Fprintf(out, "Started: %s\n\n", sessionReport.StartedAt.Format("2006-01-02 15:04:05"))
	for _, record := range sessionReport.Records {
		if record.OK() {
			fmt.Fprintf(out, "  OK   %s -> %s\n", record.URL, record.ProjectDir)
			continue
		}
		fmt.Fprintf(out, "  FAIL %s (%s)\n", record.URL, record.Error)
	}
	return nil
}
