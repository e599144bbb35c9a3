// Package pipeline wires section resolution, script generation, and
// verification into the single flow shared by every entry point, and writes
// the output artifacts.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pagecast/pagecast/internal/extract"
	"github.com/pagecast/pagecast/internal/generate"
	"github.com/pagecast/pagecast/internal/llm"
	"github.com/pagecast/pagecast/internal/llmcall"
	"github.com/pagecast/pagecast/internal/prompts"
	"github.com/pagecast/pagecast/internal/sections"
	"github.com/pagecast/pagecast/internal/store"
	"github.com/pagecast/pagecast/internal/verify"
)

// Options configures a pipeline run. Zero values fall back to defaults.
type Options struct {
	// Output is the artifact directory where the script and report land.
	Output store.Dir

	// Prompts, Budget, and Recorder are shared by the generation and
	// verification stages, so one run draws on one call budget and one log.
	Prompts  *prompts.Resolver
	Budget   *llmcall.Budget
	Recorder *llmcall.Recorder

	// Model overrides the client's default model when set.
	Model string

	// Generation loop tuning, see generate.Options.
	MaxIterations   int
	ScoreThreshold  float64
	TargetWordCount int

	Logger *slog.Logger
}

// Result is what a pipeline run produces.
type Result struct {
	Script       string
	Verification *verify.Report
	WordCount    int
}

// Pipeline runs the full generation and verification flow over an
// extraction result.
type Pipeline struct {
	client llm.Client
	opts   Options
	log    *slog.Logger
}

// New creates a Pipeline backed by the given chat client.
func New(client llm.Client, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Prompts == nil {
		opts.Prompts = prompts.NewResolver("", opts.Logger)
	}
	if opts.Budget == nil {
		opts.Budget = llmcall.NewBudget(0)
	}
	if opts.Recorder == nil {
		opts.Recorder = llmcall.NewRecorder("", opts.Logger)
	}
	return &Pipeline{client: client, opts: opts, log: opts.Logger}
}

// Run resolves the selected sections, generates and verifies the script,
// and writes podcast_script.txt and verification_report.json to the output
// directory. The progress callback, when set, receives a message and a
// 0.0 to 1.0 fraction at each stage.
func (p *Pipeline) Run(ctx context.Context, extracted *extract.Result, selected []sections.Selection, progress generate.ProgressFunc) (*Result, error) {
	report := func(message string, fraction float64) {
		if progress != nil {
			progress(message, fraction)
		}
	}

	report("Resolving sections …", 0.0)
	passages, err := sections.Resolve(extracted, selected, p.log)
	if err != nil {
		return nil, err
	}

	report("Generating podcast script …", 0.15)
	generator := generate.New(p.client, generate.Options{
		Prompts:         p.opts.Prompts,
		Budget:          p.opts.Budget,
		Recorder:        p.opts.Recorder,
		Model:           p.opts.Model,
		MaxIterations:   p.opts.MaxIterations,
		ScoreThreshold:  p.opts.ScoreThreshold,
		TargetWordCount: p.opts.TargetWordCount,
		Logger:          p.log,
	})
	script, err := generator.Run(ctx, passages, progress)
	if err != nil {
		return nil, err
	}

	report("Verifying claims and coverage …", 0.75)
	verifier := verify.New(p.client, verify.Options{
		Prompts:  p.opts.Prompts,
		Budget:   p.opts.Budget,
		Recorder: p.opts.Recorder,
		Model:    p.opts.Model,
		Logger:   p.log,
	})
	verification, err := verifier.Run(ctx, script, passages)
	if err != nil {
		return nil, err
	}

	report("Writing output files …", 0.9)
	if err := store.WriteScript(p.opts.Output.ScriptPath(), script); err != nil {
		return nil, err
	}
	if err := store.WriteReport(p.opts.Output.ReportPath(), verification); err != nil {
		return nil, err
	}

	wordCount := len(strings.Fields(script))
	report("Done.", 1.0)
	p.log.Info("pipeline complete",
		"words", wordCount,
		"script", p.opts.Output.ScriptPath(),
		"report", p.opts.Output.ReportPath())

	return &Result{Script: script, Verification: verification, WordCount: wordCount}, nil
}
