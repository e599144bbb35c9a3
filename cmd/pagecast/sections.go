package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/cliout"
	"github.com/pagecast/pagecast/internal/store"
)

var sectionsExtracted string

// sectionView shapes a detected section for listing output.
type sectionView struct {
	Title     string `json:"title" yaml:"title"`
	StartPage int    `json:"start_page" yaml:"start_page"`
	EndPage   int    `json:"end_page" yaml:"end_page"`
	Level     int    `json:"level" yaml:"level"`
}

type sectionsView struct {
	Filename   string        `json:"filename" yaml:"filename"`
	Strategy   string        `json:"extraction_strategy" yaml:"extraction_strategy"`
	TotalPages int           `json:"total_pages" yaml:"total_pages"`
	Sections   []sectionView `json:"sections" yaml:"sections"`
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List sections detected in a cached extraction",
	Long: `Sections lists the document structure a previous extract run detected,
with the page range and nesting level of each section.

Examples:
  pagecast sections
  pagecast sections --extracted /tmp/extracted.json --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		extractedPath := sectionsExtracted
		if extractedPath == "" {
			extractedPath = filepath.Join(cfg.Paths.Output, store.ExtractionFileName)
		}

		result, err := store.ReadExtraction(extractedPath)
		if err != nil {
			return err
		}

		view := sectionsView{
			Filename:   result.Metadata.Filename,
			Strategy:   result.Metadata.ExtractionStrategy,
			TotalPages: result.Metadata.TotalPages,
			Sections:   make([]sectionView, len(result.Sections)),
		}
		for i, s := range result.Sections {
			view.Sections[i] = sectionView{
				Title:     s.Title,
				StartPage: s.StartPage,
				EndPage:   s.EndPage,
				Level:     s.Level,
			}
		}

		return cliout.Output(view)
	},
}

func init() {
	sectionsCmd.Flags().StringVar(
		&sectionsExtracted, "extracted", "", "Path to the cached extraction JSON (default: <output dir>/extracted_text.json)",
	)

	rootCmd.AddCommand(sectionsCmd)
}
