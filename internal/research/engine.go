// Package research drives the iterative search-and-reasoning loop: plan,
// bounded refine/search/analyze rounds, then a synthesis call over a truncated
// trace. One invocation owns its trace exclusively; nothing is shared.
package research

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/search"
	"github.com/mohammad-safakhou/scout/internal/telemetry"
	"github.com/mohammad-safakhou/scout/models"
	"github.com/mohammad-safakhou/scout/provider"
)

// sufficiencyMarkers short-circuit the refinement loop when an analysis
// declares the evidence adequate. Exact trigger strings are pinned by tests;
// changing them changes observable control flow.
var sufficiencyMarkers = []string{"sufficient information", "enough information"}

// Searcher is the gateway contract the engine depends on. It never fails:
// exhausted retries yield a synthetic batch instead of an error.
type Searcher interface {
	Search(ctx context.Context, query string) []models.SearchResult
}

// Engine owns the control flow of one research invocation.
type Engine struct {
	llm         provider.Provider
	gateway     Searcher
	logger      *log.Logger
	temperature float64

	maxRounds      int
	maxConsecutive int
	synthesisLimit int
}

// NewEngine wires the engine from config. The logger must not be nil.
func NewEngine(llm provider.Provider, gateway Searcher, cfg config.ResearchConfig, temperature float64, logger *log.Logger) *Engine {
	e := &Engine{
		llm:            llm,
		gateway:        gateway,
		logger:         logger,
		temperature:    temperature,
		maxRounds:      cfg.MaxRounds,
		maxConsecutive: cfg.MaxConsecutive,
		synthesisLimit: cfg.SynthesisLimit,
	}
	if e.maxRounds <= 0 {
		e.maxRounds = 2
	}
	if e.maxConsecutive <= 0 {
		e.maxConsecutive = 2
	}
	if e.synthesisLimit <= 0 {
		e.synthesisLimit = 2
	}
	return e
}

// Run executes one full research invocation. Search failures are absorbed by
// the gateway; LLM failures propagate and abort the invocation.
func (e *Engine) Run(ctx context.Context, query string, initial []models.SearchResult, prior string) (models.ResearchResponse, error) {
	var steps []models.TraceStep

	// Phase 1: plan.
	telemetry.LLMRequests.WithLabelValues("plan").Inc()
	plan, err := e.llm.Complete(ctx, planSystemPrompt, buildPlanPrompt(query, initial, prior), e.temperature)
	if err != nil {
		telemetry.ResearchRuns.WithLabelValues("llm_error").Inc()
		return models.ResearchResponse{}, fmt.Errorf("planning failed: %w", err)
	}
	steps = append(steps, models.TraceStep{
		Thought:     "Understand the question and sketch a research plan",
		Action:      "review question and initial search results",
		Observation: fmt.Sprintf("drafted plan from %d initial results", len(initial)),
		Reflection:  plan,
	})

	// A synthetic initial batch already counts as one unproductive round.
	failures := 0
	if search.IsFallback(initial) {
		failures = 1
	}

	// Phase 2: bounded refine/search/analyze rounds.
	for round := 1; round <= e.maxRounds; round++ {
		telemetry.LLMRequests.WithLabelValues("refine").Inc()
		raw, err := e.llm.Complete(ctx, refineSystemPrompt, buildRefinePrompt(query, steps), e.temperature)
		if err != nil {
			telemetry.ResearchRuns.WithLabelValues("llm_error").Inc()
			return models.ResearchResponse{}, fmt.Errorf("query refinement failed: %w", err)
		}
		refined := search.StripQuotes(raw)

		steps = append(steps, models.TraceStep{
			Thought:     fmt.Sprintf("Round %d: gather more evidence", round),
			Action:      fmt.Sprintf("search the web for %q", refined),
			Observation: "search in progress",
		})
		idx := len(steps) - 1

		results, searchErr := e.safeSearch(ctx, refined)

		failed := searchErr != nil || search.IsFallback(results)
		switch {
		case searchErr != nil:
			steps[idx].Observation = fmt.Sprintf("search error: %v", searchErr)
		case failed:
			steps[idx].Observation = fmt.Sprintf("got %d placeholder results (no live search data)", len(results))
		default:
			steps[idx].Observation = fmt.Sprintf("found %d live results", len(results))
		}

		if failed {
			failures++
			if failures >= e.maxConsecutive {
				steps[idx].Observation += "; proceeding with available information"
				e.logger.Printf("round %d: %d consecutive unproductive searches, stopping early", round, failures)
				break
			}
			continue
		}
		failures = 0

		telemetry.LLMRequests.WithLabelValues("analyze").Inc()
		analysis, err := e.llm.Complete(ctx, analyzeSystemPrompt, buildAnalyzePrompt(query, results, steps), e.temperature)
		if err != nil {
			telemetry.ResearchRuns.WithLabelValues("llm_error").Inc()
			return models.ResearchResponse{}, fmt.Errorf("result analysis failed: %w", err)
		}
		steps = append(steps, models.TraceStep{
			Thought:     "Assess relevance and sufficiency of the new results",
			Action:      "analyze search results",
			Observation: "analysis recorded",
			Reflection:  analysis,
		})

		if hasSufficiencyMarker(analysis) {
			e.logger.Printf("round %d: analysis reports sufficient information, stopping early", round)
			break
		}
	}

	// Phase 3: synthesis over the reduced trace.
	telemetry.LLMRequests.WithLabelValues("synthesize").Inc()
	reduced := synthesisSteps(steps, e.synthesisLimit)
	final, err := e.llm.Complete(ctx, synthesizeSystemPrompt, buildSynthesisPrompt(query, reduced, prior), e.temperature)
	if err != nil {
		telemetry.ResearchRuns.WithLabelValues("llm_error").Inc()
		return models.ResearchResponse{}, fmt.Errorf("synthesis failed: %w", err)
	}
	if strings.TrimSpace(final) == "" {
		final = "I was unable to compose a detailed answer from the available research."
	}

	telemetry.ResearchRuns.WithLabelValues("ok").Inc()
	return models.ResearchResponse{TraceSteps: steps, FinalOutput: final}, nil
}

// safeSearch shields the loop from a panicking gateway implementation; a
// panic is reported like any other unproductive round.
func (e *Engine) safeSearch(ctx context.Context, query string) (results []models.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search panicked: %v", r)
		}
	}()
	return e.gateway.Search(ctx, query), nil
}

func hasSufficiencyMarker(analysis string) bool {
	lower := strings.ToLower(analysis)
	for _, m := range sufficiencyMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
