// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franmgl2001/case-highlighter/internal/hlfile"
)

var runCmd = &cobra.Command{
	Use:   "run <input.pdf>",
	Short: "Extract quotes with AI and highlight them in one step",
	Long: `Run performs the full pipeline: extract important quotes from the PDF
with the AI model, save them to a highlight file, and apply them to a
copy of the PDF.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("output", "", "output PDF path (default: input with _highlighted suffix)")
	runCmd.Flags().String("out", "", "highlight file to write (default: input with .highlights.json suffix)")
	runCmd.Flags().String("db", "", "SQLite database for run history (default: from config)")
	runCmd.Flags().String("model", "", "AI model identifier (default gpt-4o-mini)")
	runCmd.Flags().Int("max-per-page", 0, "maximum highlights kept per page (default 7)")
	runCmd.Flags().Int("max-total", 0, "maximum highlights kept in total (0 = no cap)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	input := args[0]

	highlights, err := extractHighlights(cmd, input)
	if err != nil {
		return err
	}
	if len(highlights) == 0 {
		return fmt.Errorf("no highlights extracted from %s", input)
	}

	// Persist the extraction so the run can be reviewed and re-applied.
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = derivedHighlightPath(input)
	}
	if err := hlfile.Write(out, highlights); err != nil {
		return err
	}
	fmt.Printf("Wrote %d highlight(s) to %s\n", len(highlights), out)

	output, _ := cmd.Flags().GetString("output")
	dbPath, _ := cmd.Flags().GetString("db")
	return applyHighlights(input, output, dbPath, highlights)
}
