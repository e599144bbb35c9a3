package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/extract"
	"github.com/pagecast/pagecast/internal/store"
)

var (
	extractInput  string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text and sections from a PDF",
	Long: `Extract pulls per-page text and the section structure out of a PDF and
caches both as JSON for the generate and sections commands.

Section detection tries three strategies in order: the embedded outline,
a parsed table-of-contents page, and font-size heuristics.

Examples:
  pagecast extract --input report.pdf
  pagecast extract --input report.pdf --output /tmp/extracted.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		outputPath := extractOutput
		if outputPath == "" {
			outputPath = filepath.Join(cfg.Paths.Output, store.ExtractionFileName)
		}

		opts := cfg.ExtractionOptions()
		opts.Logger = slog.Default()

		registry := extract.DefaultRegistry(opts, slog.Default())
		extractor, err := registry.ForFile(extractInput)
		if err != nil {
			return err
		}

		result, err := extractor.ExtractFile(cmd.Context(), extractInput)
		if err != nil {
			return err
		}

		if err := store.WriteExtraction(outputPath, result); err != nil {
			return err
		}

		fmt.Printf("Extraction complete → %s\n", outputPath)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractInput, "input", "", "Path to the PDF file")
	extractCmd.Flags().StringVar(
		&extractOutput, "output", "", "Output JSON path (default: <output dir>/extracted_text.json)",
	)
	extractCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(extractCmd)
}
