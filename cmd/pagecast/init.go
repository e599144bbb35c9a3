package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/config"
	"github.com/pagecast/pagecast/internal/home"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the pagecast home directory",
	Long: `Init creates the pagecast home directory with its output, logs, and
prompts subdirectories, and writes a default config file if none exists.

Examples:
  pagecast init
  pagecast init --home /tmp/pagecast`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		if err := h.EnsureExists(); err != nil {
			return err
		}
		fmt.Printf("Initialized pagecast home at %s\n", h.Path())

		if h.ConfigExists() {
			fmt.Printf("Config already exists at %s\n", h.ConfigPath())
			return nil
		}

		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", h.ConfigPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
