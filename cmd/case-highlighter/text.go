// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franmgl2001/case-highlighter/internal/pdfdoc"
)

var textCmd = &cobra.Command{
	Use:   "text <input.pdf>",
	Short: "Print the extracted text of each page",
	Long: `Text prints the text the highlighter sees for each page, in reading
order. Useful for checking what the AI extraction and the quote search
operate on.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	textCmd.Flags().Int("page", 0, "print a single page (1-based, 0 = all)")

	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	doc, err := pdfdoc.Open(args[0])
	if err != nil {
		return err
	}

	texts, err := doc.Texts()
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	if page != 0 {
		if page < 1 || page > len(texts) {
			return fmt.Errorf("page %d out of range (document has %d pages)", page, len(texts))
		}
		fmt.Println(texts[page-1])
		return nil
	}

	for i, text := range texts {
		fmt.Printf("--- page %d ---\n%s\n\n", i+1, text)
	}
	return nil
}
