// Package generate runs the podcast script production loop: a key-points
// pass over the source material, an initial generation, then alternating
// evaluation and improvement until the score threshold is met or the
// iteration cap is reached.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pagecast/pagecast/internal/llm"
	"github.com/pagecast/pagecast/internal/llmcall"
	"github.com/pagecast/pagecast/internal/prompts"
	"github.com/pagecast/pagecast/internal/sections"
)

// Defaults for the generation loop.
const (
	DefaultMaxIterations   = 5
	DefaultScoreThreshold  = 8.0
	DefaultTargetWordCount = 2000
)

// ProgressFunc receives stage updates with a completion fraction in [0, 1].
type ProgressFunc func(message string, fraction float64)

// Options configures the generation loop.
type Options struct {
	// Prompts resolves agent prompt templates. Defaults to the embedded
	// templates.
	Prompts *prompts.Resolver

	// Budget caps LLM calls for the run. Defaults to a fresh budget with
	// the standard limit.
	Budget *llmcall.Budget

	// Recorder logs every call. Defaults to a disabled recorder.
	Recorder *llmcall.Recorder

	// Model overrides the client default when set.
	Model string

	// MaxIterations caps evaluate/improve cycles. Default 5.
	MaxIterations int

	// ScoreThreshold stops the loop once the evaluator's overall score
	// reaches it. Default 8.
	ScoreThreshold float64

	// TargetWordCount is passed to the generator prompt. Default 2000.
	TargetWordCount int

	Logger *slog.Logger
}

// Generator produces podcast scripts from resolved source passages.
type Generator struct {
	client llm.Client
	opts   Options
	log    *slog.Logger
}

// New creates a Generator around a chat client.
func New(client llm.Client, opts Options) *Generator {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.ScoreThreshold <= 0 {
		opts.ScoreThreshold = DefaultScoreThreshold
	}
	if opts.TargetWordCount <= 0 {
		opts.TargetWordCount = DefaultTargetWordCount
	}
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
	return &Generator{client: client, opts: opts, log: opts.Logger}
}

// Run executes the full loop and returns the final script text.
func (g *Generator) Run(ctx context.Context, passages []sections.Passage, progress ProgressFunc) (string, error) {
	report := func(msg string, frac float64) {
		if progress != nil {
			progress(msg, frac)
		}
	}

	sourceText := sections.FormatPassages(passages)

	// Key-points extraction
	if err := g.opts.Budget.Check(); err != nil {
		return "", err
	}
	report("Extracting key points …", 0.05)

	kpReq, kpResult, err := g.call(ctx, prompts.ExtractKeyPoints, map[string]string{
		"source_text": sourceText,
	}, keyPointsSchema)
	if err != nil {
		return "", err
	}
	var keyPoints KeyPointsOutput
	if err := json.Unmarshal(kpResult.ParsedJSON, &keyPoints); err != nil {
		return "", &ParseError{Agent: "key_points", Err: err}
	}
	g.track(kpReq, kpResult, "key_points", 0, nil)
	checklist := formatKeyPointsChecklist(keyPoints)
	g.log.Info("extracted key points", "sections", len(keyPoints.Sections))

	// Initial generation
	if err := g.opts.Budget.Check(); err != nil {
		return "", err
	}
	report("Generating initial script …", 0.15)

	genReq, genResult, err := g.call(ctx, prompts.Generate, map[string]string{
		"source_text":          sourceText,
		"target_word_count":    strconv.Itoa(g.opts.TargetWordCount),
		"key_points_checklist": checklist,
	}, nil)
	if err != nil {
		return "", err
	}
	script := genResult.Content
	g.track(genReq, genResult, "generator", 0, nil)
	g.log.Info("generator produced script", "words", len(strings.Fields(script)))

	// Evaluate / improve loop
	for iteration := 0; iteration < g.opts.MaxIterations; iteration++ {
		if err := g.opts.Budget.Check(); err != nil {
			return "", err
		}
		report(fmt.Sprintf("Evaluating (iteration %d/%d) …", iteration+1, g.opts.MaxIterations), 0.2+float64(iteration)*0.08)

		evalReq, evalResult, err := g.call(ctx, prompts.Evaluate, map[string]string{
			"script":      script,
			"source_text": sourceText,
		}, evaluationSchema)
		if err != nil {
			return "", err
		}
		var scores EvaluationScores
		if err := json.Unmarshal(evalResult.ParsedJSON, &scores); err != nil {
			return "", &ParseError{Agent: "evaluator", Err: err}
		}
		g.track(evalReq, evalResult, "evaluator", iteration, scores)
		g.log.Info("script evaluated", "iteration", iteration, "overall", scores.Overall)

		if scores.Overall >= g.opts.ScoreThreshold {
			g.log.Info("score threshold met", "overall", scores.Overall, "threshold", g.opts.ScoreThreshold)
			break
		}

		if err := g.opts.Budget.Check(); err != nil {
			return "", err
		}
		report(fmt.Sprintf("Improving script (iteration %d) …", iteration+1), 0.3+float64(iteration)*0.08)

		scoresJSON, err := json.MarshalIndent(scores, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize scores: %w", err)
		}
		impReq, impResult, err := g.call(ctx, prompts.Improve, map[string]string{
			"script":               script,
			"scores":               string(scoresJSON),
			"source_text":          sourceText,
			"key_points_checklist": checklist,
		}, nil)
		if err != nil {
			return "", err
		}
		script = impResult.Content
		g.track(impReq, impResult, "improver", iteration, nil)
		g.log.Info("improver produced script", "iteration", iteration, "words", len(strings.Fields(script)))
	}

	return script, nil
}

// call renders the named prompt and sends it as a single user message,
// requesting structured output when a schema is given.
func (g *Generator) call(ctx context.Context, promptName string, vars map[string]string, schema json.RawMessage) (*llm.ChatRequest, *llm.ChatResult, error) {
	text, err := g.opts.Prompts.Render(promptName, vars)
	if err != nil {
		return nil, nil, err
	}

	req := &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: text}},
		Model:    g.opts.Model,
	}
	if schema != nil {
		req.ResponseFormat = &llm.ResponseFormat{Type: "json_object", JSONSchema: schema}
	}

	result, err := g.client.Chat(ctx, req)
	if err != nil {
		return req, result, err
	}
	return req, result, nil
}

func (g *Generator) track(req *llm.ChatRequest, result *llm.ChatResult, agent string, iteration int, scores any) {
	llmcall.Track(g.opts.Recorder, g.opts.Budget, g.log, llmcall.FromChatResult(req, result, llmcall.RecordOptions{
		Agent:     agent,
		Iteration: iteration,
		Scores:    scores,
	}))
}

// formatKeyPointsChecklist renders the extracted key points as a scannable
// checklist for the generator and improver prompts.
func formatKeyPointsChecklist(keyPoints KeyPointsOutput) string {
	var lines []string
	for _, section := range keyPoints.Sections {
		lines = append(lines, "\n"+section.Section+":")
		for _, point := range section.Points {
			lines = append(lines, "  - "+point)
		}
	}
	return strings.Join(lines, "\n")
}
