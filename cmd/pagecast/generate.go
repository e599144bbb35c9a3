package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/llm"
	"github.com/pagecast/pagecast/internal/llmcall"
	"github.com/pagecast/pagecast/internal/pipeline"
	"github.com/pagecast/pagecast/internal/prompts"
	"github.com/pagecast/pagecast/internal/store"
)

var (
	generateRunConfig string
	generateExtracted string
	generateProvider  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the podcast generation pipeline",
	Long: `Generate turns a cached extraction into a podcast script.

The run config is a JSON file with a "sections" list naming the sections to
cover; each entry may carry a "page_override" range like "10-14". The
pipeline extracts key points, drafts and iteratively improves the script
until the evaluator's score clears the threshold, verifies every claim and
section against the source, and writes the script, the verification report,
and the LLM call log to the output directory.

Examples:
  pagecast generate --run-config config.json
  pagecast generate --run-config config.json --extracted /tmp/extracted.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		extractedPath := generateExtracted
		if extractedPath == "" {
			extractedPath = filepath.Join(cfg.Paths.Output, store.ExtractionFileName)
		}
		extracted, err := store.ReadExtraction(extractedPath)
		if err != nil {
			return err
		}

		runCfg, err := store.ReadRunConfig(generateRunConfig)
		if err != nil {
			return err
		}

		providerName := generateProvider
		if providerName == "" {
			providerName = cfg.Defaults.LLMProvider
		}
		registry := llm.NewRegistryFromConfig(cfg.ToLLMRegistryConfig(), slog.Default())
		client, err := registry.Get(providerName)
		if err != nil {
			return err
		}
		providerCfg, _ := cfg.GetLLMProvider(providerName)

		outDir := store.NewDir(cfg.Paths.Output)
		p := pipeline.New(client, pipeline.Options{
			Output:          outDir,
			Prompts:         prompts.NewResolver(cfg.Paths.Prompts, slog.Default()),
			Budget:          llmcall.NewBudget(cfg.Generation.MaxLLMCalls),
			Recorder:        llmcall.NewRecorder(outDir.CallLogPath(), slog.Default()),
			Model:           providerCfg.Model,
			MaxIterations:   cfg.Generation.MaxIterations,
			ScoreThreshold:  cfg.Generation.ScoreThreshold,
			TargetWordCount: cfg.Generation.TargetWordCount,
		})

		progress := func(msg string, frac float64) {
			fmt.Printf("  [%5.1f%%] %s\n", frac*100, msg)
		}

		result, err := p.Run(cmd.Context(), extracted, runCfg.Sections, progress)
		if err != nil {
			return err
		}

		fmt.Printf("Script written  → %s\n", outDir.ScriptPath())
		fmt.Printf("Report written  → %s\n", outDir.ReportPath())
		fmt.Printf("Word count: %d\n", result.WordCount)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(
		&generateRunConfig, "run-config", "config.json", "Path to the run config JSON",
	)
	generateCmd.Flags().StringVar(
		&generateExtracted, "extracted", "", "Path to the cached extraction JSON (default: <output dir>/extracted_text.json)",
	)
	generateCmd.Flags().StringVar(
		&generateProvider, "provider", "", "LLM provider to use (default: from config)",
	)

	rootCmd.AddCommand(generateCmd)
}
