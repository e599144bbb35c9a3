package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/cliout"
	"github.com/pagecast/pagecast/internal/llmcall"
	"github.com/pagecast/pagecast/internal/store"
)

var callsLog string

type usageView struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" yaml:"total_tokens"`
}

type callsView struct {
	Path       string         `json:"path" yaml:"path"`
	TotalCalls int            `json:"total_calls" yaml:"total_calls"`
	ByAgent    map[string]int `json:"by_agent" yaml:"by_agent"`
	Usage      usageView      `json:"usage" yaml:"usage"`
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Summarize the LLM call log",
	Long: `Calls reads the JSONL call log a generate run wrote and reports how many
calls each agent made and the token totals across the run.

Examples:
  pagecast calls
  pagecast calls --log output/llm_log.json --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		logPath := callsLog
		if logPath == "" {
			logPath = filepath.Join(cfg.Paths.Output, store.CallLogFileName)
		}

		calls, err := llmcall.ReadLog(logPath)
		if err != nil {
			return err
		}

		usage := llmcall.TotalUsage(calls)
		view := callsView{
			Path:       logPath,
			TotalCalls: len(calls),
			ByAgent:    llmcall.CountByAgent(calls),
			Usage: usageView{
				PromptTokens:     usage.PromptTokens,
				CompletionTokens: usage.CompletionTokens,
				TotalTokens:      usage.PromptTokens + usage.CompletionTokens,
			},
		}
		return cliout.Output(view)
	},
}

func init() {
	callsCmd.Flags().StringVar(
		&callsLog, "log", "", "Path to the call log (default: <output dir>/llm_log.json)",
	)

	rootCmd.AddCommand(callsCmd)
}
