// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franmgl2001/case-highlighter/internal/history"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded highlight runs",
	Long: `Runs lists past highlight runs from the history database, newest
first, including the quotes that could not be resolved.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("db", "", "SQLite database for run history (default: from config)")
	runsCmd.Flags().Int("limit", 0, "maximum runs to list (default 20)")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = pipelineConfig().History.DBPath
	}
	if dbPath == "" {
		return fmt.Errorf("no history database: provide --db or set history.db_path in the config")
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("#%d  %s  %s -> %s  resolved %d/%d\n",
			r.ID, r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Input, r.Output, r.Resolved, r.Total)
		for _, u := range r.Unresolved {
			fmt.Printf("    unresolved #%d (page %d, %s): %q\n", u.Index, u.Page, u.Reason, truncateQuote(u.Quote))
		}
	}
	return nil
}
