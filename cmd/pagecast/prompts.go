package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pagecast/pagecast/internal/cliout"
	"github.com/pagecast/pagecast/internal/prompts"
)

var promptsName string

// promptView shapes a prompt template for listing output. Overridden is set
// when a file in the prompt override directory replaces the built-in text.
type promptView struct {
	Name       string   `json:"name" yaml:"name"`
	Variables  []string `json:"variables" yaml:"variables"`
	Hash       string   `json:"hash" yaml:"hash"`
	Overridden bool     `json:"overridden" yaml:"overridden"`
	Text       string   `json:"text,omitempty" yaml:"text,omitempty"`
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Describe the prompt template set",
	Long: `Prompts lists the templates that drive the generation and verification
agents, the variables each one expects, and whether a file in the prompt
override directory replaces the built-in text.

Examples:
  pagecast prompts
  pagecast prompts --name generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		resolver := prompts.NewResolver(cfg.Paths.Prompts, slog.Default())

		if promptsName != "" {
			view, err := describePrompt(resolver, promptsName, true)
			if err != nil {
				return err
			}
			return cliout.Output(view)
		}

		views := make([]promptView, 0, len(prompts.Names()))
		for _, name := range prompts.Names() {
			view, err := describePrompt(resolver, name, false)
			if err != nil {
				return err
			}
			views = append(views, view)
		}
		return cliout.Output(views)
	},
}

func describePrompt(resolver *prompts.Resolver, name string, includeText bool) (promptView, error) {
	embedded, err := prompts.Describe(name)
	if err != nil {
		return promptView{}, err
	}

	text, err := resolver.Load(name)
	if err != nil {
		return promptView{}, err
	}

	hash := prompts.HashText(text)
	view := promptView{
		Name:       name,
		Variables:  prompts.ExtractVariables(text),
		Hash:       hash,
		Overridden: hash != embedded.Hash,
	}
	if includeText {
		view.Text = text
	}
	return view, nil
}

func init() {
	promptsCmd.Flags().StringVar(
		&promptsName, "name", "", "Show the full text of a single template",
	)

	rootCmd.AddCommand(promptsCmd)
}
