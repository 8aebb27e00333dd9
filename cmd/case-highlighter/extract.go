// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/franmgl2001/case-highlighter/internal/extract"
	"github.com/franmgl2001/case-highlighter/internal/hlfile"
	"github.com/franmgl2001/case-highlighter/internal/pdfdoc"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input.pdf>",
	Short: "Extract important quotes from a PDF with AI",
	Long: `Extract reads the text of each page, asks the AI model for the most
important verbatim quotes, and writes them to a highlight file. The
file can be reviewed and edited before applying it with the highlight
command.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("out", "", "highlight file to write (default: input with .highlights.json suffix)")
	extractCmd.Flags().String("model", "", "AI model identifier (default gpt-4o-mini)")
	extractCmd.Flags().Int("max-per-page", 0, "maximum highlights kept per page (default 7)")
	extractCmd.Flags().Int("max-total", 0, "maximum highlights kept in total (0 = no cap)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := args[0]

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = derivedHighlightPath(input)
	}

	highlights, err := extractHighlights(cmd, input)
	if err != nil {
		return err
	}

	if err := hlfile.Write(out, highlights); err != nil {
		return err
	}
	fmt.Printf("Wrote %d highlight(s) to %s\n", len(highlights), out)
	return nil
}

// extractHighlights runs the AI extraction pass over every page of the
// PDF. Shared by extract and run.
func extractHighlights(cmd *cobra.Command, input string) ([]types.Highlight, error) {
	pipeline := pipelineConfig()
	cfg, err := extractionConfig(cmd, pipeline.Extraction)
	if err != nil {
		return nil, err
	}

	doc, err := pdfdoc.Open(input)
	if err != nil {
		return nil, err
	}
	texts, err := doc.Texts()
	if err != nil {
		return nil, err
	}

	pages := make([]extract.PageText, len(texts))
	for i, text := range texts {
		pages[i] = extract.PageText{Page: i + 1, Text: text}
	}

	timeout := pipeline.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := pipeline.HTTP.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	backend := &extract.OpenAIBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		UserAgent:  userAgent,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: timeout},
	}

	fmt.Printf("Extracting highlights from %d page(s) of %s\n", len(pages), input)
	highlights, summary, err := extract.ExtractAll(context.Background(), backend, pages, cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	if summary.Failed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d page(s) failed extraction\n", summary.Failed)
	}
	return highlights, nil
}

// extractionConfig overlays command flags on the config file values.
func extractionConfig(cmd *cobra.Command, cfg types.ExtractionConfig) (types.ExtractionConfig, error) {
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	cfg.APIKey = secretDefault("openai-api-key", cfg.APIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("no API key: provide .secrets/openai-api-key or set OPENAI_API_KEY")
	}

	if maxPerPage, _ := cmd.Flags().GetInt("max-per-page"); maxPerPage > 0 {
		cfg.MaxPerPage = maxPerPage
	}
	if maxTotal, _ := cmd.Flags().GetInt("max-total"); maxTotal > 0 {
		cfg.MaxTotal = maxTotal
	}
	return cfg, nil
}

func derivedHighlightPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".highlights.json"
}
