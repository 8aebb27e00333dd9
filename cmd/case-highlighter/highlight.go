// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/franmgl2001/case-highlighter/internal/annotate"
	"github.com/franmgl2001/case-highlighter/internal/history"
	"github.com/franmgl2001/case-highlighter/internal/hlfile"
	"github.com/franmgl2001/case-highlighter/internal/pdfdoc"
	"github.com/franmgl2001/case-highlighter/internal/resolve"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

const defaultOutputSuffix = "_highlighted"

var highlightCmd = &cobra.Command{
	Use:   "highlight <input.pdf> <highlights-file>",
	Short: "Apply a highlight file to a PDF",
	Long: `Highlight reads quote requests from a JSON or YAML highlight file,
locates each quote on its page, and writes highlight annotations into a
copy of the PDF. Quotes that cannot be located are reported; they never
abort the batch.`,
	Args: cobra.ExactArgs(2),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().String("output", "", "output PDF path (default: input with _highlighted suffix)")
	highlightCmd.Flags().String("db", "", "SQLite database for run history (default: from config)")

	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	input, hlPath := args[0], args[1]

	highlights, err := hlfile.Read(hlPath)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	dbPath, _ := cmd.Flags().GetString("db")

	return applyHighlights(input, output, dbPath, highlights)
}

// applyHighlights opens the PDF, resolves and annotates every request,
// saves the result, and records the run. Shared by highlight and run.
func applyHighlights(input, output, dbPath string, highlights []types.Highlight) error {
	cfg := pipelineConfig()

	if output == "" {
		output = derivedOutputPath(input, cfg.Highlight)
	}

	doc, err := pdfdoc.Open(input)
	if err != nil {
		return err
	}

	resolver := resolve.New(cfg.Highlight.Resolver)

	fmt.Printf("Applying %d highlight(s) to %s\n", len(highlights), input)
	report, err := annotate.Apply(doc, highlights, resolver, os.Stdout)
	if err != nil {
		return err
	}

	if err := doc.Save(output); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", output)

	printReport(report)

	if dbPath == "" {
		dbPath = cfg.History.DBPath
	}
	if dbPath != "" {
		if err := recordRun(dbPath, input, output, report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
		}
	}

	if report.HasFailures() {
		return fmt.Errorf("%d highlight(s) could not be resolved", len(report.Unresolved))
	}
	return nil
}

func printReport(report types.Report) {
	fmt.Printf("Resolved %d of %d highlight(s)\n", report.Resolved, report.Total)
	for _, u := range report.Unresolved {
		fmt.Printf("  unresolved #%d (page %d, %s): %q\n", u.Index, u.Page, u.Reason, truncateQuote(u.Quote))
	}
}

// truncateQuote shortens a quote for report output.
func truncateQuote(s string) string {
	const max = 60
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func recordRun(dbPath, input, output string, report types.Report) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(context.Background(), input, output, report)
	return err
}

// derivedOutputPath appends the output suffix to the input filename.
func derivedOutputPath(input string, cfg types.HighlightConfig) string {
	suffix := cfg.OutputSuffix
	if suffix == "" {
		suffix = defaultOutputSuffix
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}
