package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/cliout"
	"github.com/pagecast/pagecast/internal/config"
	"github.com/pagecast/pagecast/internal/home"
	"github.com/pagecast/pagecast/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "pagecast",
	Short: "Turn PDF documents into verified podcast scripts",
	Long: `Pagecast extracts the section structure of a PDF, generates a podcast
script from selected sections with an LLM, and verifies the result against
the source text.

The pipeline includes:
  - Three-tier section detection (embedded outline, contents page, font heuristics)
  - Key-point extraction and iterative script drafting with self-evaluation
  - Claim tracing and section coverage verification
  - A JSONL call log with a hard budget on LLM usage`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pagecast/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "pagecast home directory (default: ~/.pagecast)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "format", "f", "yaml", "output format for listings: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "warn", "log level: debug, info, warn, error",
	)

	// Set output format and logger before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cliout.SetOutputFormat(outputFormat)
		slog.SetDefault(newLogger(logLevel))
	}

	rootCmd.AddCommand(versionCmd)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}

// loadConfig builds the config manager, preferring an explicit --config path
// and falling back to the home directory's config file when --home is set.
func loadConfig() (*config.Manager, error) {
	path := cfgFile
	if path == "" && homeDir != "" {
		h, err := home.New(homeDir)
		if err != nil {
			return nil, err
		}
		if h.ConfigExists() {
			path = h.ConfigPath()
		}
	}
	return config.NewManager(path)
}
