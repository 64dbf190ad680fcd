package research

import (
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/scout/models"
)

const planSystemPrompt = `You are a research planner. Given a user question and an initial set of
web search results, write a short research plan: what needs to be verified, which angles to
search next, and what the final answer must cover. Be concrete and brief.`

const refineSystemPrompt = `You are a search query writer. Given the original question and the
research trace so far, output ONE improved web search query that targets the biggest remaining
knowledge gap. Output only the query text, nothing else.`

const analyzeSystemPrompt = `You are a research analyst. Judge the given search results for
relevance to the question and whether they are sufficient to answer it. If they are, say
explicitly that you have sufficient information. Otherwise name what is still missing.`

const synthesizeSystemPrompt = `You are a research assistant writing the final answer. Use the
research plan, the analyses and any prior conversation context. Answer the question directly,
note uncertainty where the evidence is thin, and keep the answer self-contained.`

// BuildResearchContext renders query, search results, trace steps and prior
// conversation into one prompt block. Pure formatting: empty inputs degrade to
// omitted sections, never to an error.
func BuildResearchContext(query string, results []models.SearchResult, steps []models.TraceStep, prior string) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n")

	if len(results) > 0 {
		b.WriteString("\nSearch results:\n")
		for _, r := range results {
			fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", r.Position, r.Title, r.Link, r.Snippet)
		}
	}

	if len(steps) > 0 {
		b.WriteString("\nResearch trace:\n")
		for i, s := range steps {
			fmt.Fprintf(&b, "Step %d:\n  Thought: %s\n  Action: %s\n  Observation: %s\n", i+1, s.Thought, s.Action, s.Observation)
			if s.Reflection != "" {
				fmt.Fprintf(&b, "  Reflection: %s\n", s.Reflection)
			}
		}
	}

	if prior != "" {
		b.WriteString("\nPrior conversation:\n")
		b.WriteString(prior)
		b.WriteString("\n")
	}
	return b.String()
}

func buildPlanPrompt(query string, results []models.SearchResult, prior string) string {
	return BuildResearchContext(query, results, nil, prior) + "\nWrite the research plan."
}

func buildRefinePrompt(query string, steps []models.TraceStep) string {
	return BuildResearchContext(query, nil, steps, "") + "\nWrite the next search query."
}

func buildAnalyzePrompt(query string, results []models.SearchResult, steps []models.TraceStep) string {
	return BuildResearchContext(query, results, steps, "") + "\nAnalyze the latest search results."
}

func buildSynthesisPrompt(query string, steps []models.TraceStep, prior string) string {
	return BuildResearchContext(query, nil, steps, prior) + "\nWrite the final answer."
}
