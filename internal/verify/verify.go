// Package verify checks a finished script against its source text.
//
// Two independent agents answer complementary questions: the claims agent
// asks whether every factual statement in the script is supported by the
// source, and the coverage agent asks whether the script actually covered
// the key information from each selected section.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/pagecast/pagecast/internal/llm"
	"github.com/pagecast/pagecast/internal/llmcall"
	"github.com/pagecast/pagecast/internal/prompts"
	"github.com/pagecast/pagecast/internal/sections"
)

// Options configures a Verifier. Zero values fall back to defaults.
type Options struct {
	// Prompts resolves prompt templates. Defaults to embedded templates only.
	Prompts *prompts.Resolver

	// Budget caps the total number of LLM calls. Shared with the generation
	// stage when both run in one pipeline.
	Budget *llmcall.Budget

	// Recorder persists per-call telemetry. Defaults to a disabled recorder.
	Recorder *llmcall.Recorder

	// Model overrides the client's default model when set.
	Model string

	Logger *slog.Logger
}

// Verifier runs the claims and coverage agents over a finished script.
type Verifier struct {
	client llm.Client
	opts   Options
	log    *slog.Logger
}

// New creates a Verifier backed by the given chat client.
func New(client llm.Client, opts Options) *Verifier {
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
	return &Verifier{client: client, opts: opts, log: opts.Logger}
}

// Run verifies the script against the resolved source passages and returns
// the full verification report. Claims are checked in a single call over the
// whole script; coverage takes one call per passage.
func (v *Verifier) Run(ctx context.Context, script string, passages []sections.Passage) (*Report, error) {
	sourceText := sections.FormatPassages(passages)

	if err := v.opts.Budget.Check(); err != nil {
		return nil, err
	}
	v.log.Info("running claims verification")

	req, result, err := v.call(ctx, prompts.VerifyClaims, map[string]string{
		"script":      script,
		"source_text": sourceText,
	}, claimsSchema)
	if err != nil {
		return nil, err
	}
	var claims ClaimsOutput
	if err := json.Unmarshal(result.ParsedJSON, &claims); err != nil {
		return nil, fmt.Errorf("could not parse claims response: %w", err)
	}
	v.track(req, result, "claims_agent", 0)
	v.log.Info("claims verification finished", "claims", len(claims.Claims))

	v.log.Info("running coverage verification")
	coverage := make([]CoverageResult, 0, len(passages))
	for idx, passage := range passages {
		if err := v.opts.Budget.Check(); err != nil {
			return nil, err
		}

		req, result, err := v.call(ctx, prompts.VerifyCoverage, map[string]string{
			"section_name": passage.Name,
			"section_text": passage.Text,
			"script":       script,
		}, coverageSchema)
		if err != nil {
			return nil, err
		}
		var section CoverageResult
		if err := json.Unmarshal(result.ParsedJSON, &section); err != nil {
			return nil, fmt.Errorf("could not parse coverage response for %q: %w", passage.Name, err)
		}
		v.track(req, result, "coverage_agent", idx)
		coverage = append(coverage, section)
	}
	v.log.Info("coverage verification finished", "sections", len(coverage))

	return &Report{
		Claims:   claims.Claims,
		Coverage: coverage,
		Summary:  computeSummary(claims.Claims, coverage),
	}, nil
}

// call renders the named prompt and sends it as a single user message with
// structured output enforced by schema.
func (v *Verifier) call(ctx context.Context, promptName string, vars map[string]string, schema json.RawMessage) (*llm.ChatRequest, *llm.ChatResult, error) {
	rendered, err := v.opts.Prompts.Render(promptName, vars)
	if err != nil {
		return nil, nil, err
	}
	req := &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: rendered}},
		Model:    v.opts.Model,
		ResponseFormat: &llm.ResponseFormat{
			Type:       "json_object",
			JSONSchema: schema,
		},
	}
	result, err := v.client.Chat(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return req, result, nil
}

func (v *Verifier) track(req *llm.ChatRequest, result *llm.ChatResult, agent string, iteration int) {
	llmcall.Track(v.opts.Recorder, v.opts.Budget, v.log, llmcall.FromChatResult(req, result, llmcall.RecordOptions{
		Agent:     agent,
		Iteration: iteration,
	}))
}

// computeSummary derives the aggregate metrics from the raw agent outputs.
// The coverage percentage is rounded to one decimal place.
func computeSummary(claims []ClaimResult, coverage []CoverageResult) Summary {
	summary := Summary{TotalClaims: len(claims)}
	for _, claim := range claims {
		switch claim.Status {
		case ClaimTraced:
			summary.Traced++
		case ClaimPartiallyTraced:
			summary.PartiallyTraced++
		case ClaimNotTraced:
			summary.NotTraced++
		}
	}
	for _, section := range coverage {
		summary.TotalKeyPoints += section.KeyPointsTotal
		summary.KeyPointsCovered += section.KeyPointsCovered
	}
	if summary.TotalKeyPoints > 0 {
		pct := float64(summary.KeyPointsCovered) / float64(summary.TotalKeyPoints) * 100
		summary.CoveragePercentage = math.Round(pct*10) / 10
	}
	return summary
}
