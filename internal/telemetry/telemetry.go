// Package telemetry exposes the service's prometheus metrics, served by the
// HTTP layer at /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResearchRuns counts completed research invocations by outcome.
	ResearchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_research_runs_total",
		Help: "Completed research invocations by outcome (ok, llm_error).",
	}, []string{"outcome"})

	// SearchAttempts counts raw provider calls by result.
	SearchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_search_attempts_total",
		Help: "Raw search provider attempts by result (ok, error, empty).",
	}, []string{"result"})

	// SearchFallbacks counts queries answered with synthetic results.
	SearchFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_search_fallbacks_total",
		Help: "Search queries that exhausted retries and fell back to synthetic results.",
	})

	// LLMRequests counts provider completions by phase.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_llm_requests_total",
		Help: "LLM completion calls by research phase (plan, refine, analyze, synthesize).",
	}, []string{"phase"})
)
