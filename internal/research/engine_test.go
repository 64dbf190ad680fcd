package research

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/search"
	"github.com/mohammad-safakhou/scout/models"
)

type fakeLLM struct {
	plan     string
	refined  []string
	analyses []string
	final    string
	failOn   string // system prompt to fail on

	refineCalls  int
	analyzeCalls int
	synthUser    string
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if f.failOn != "" && system == f.failOn {
		return "", errors.New("model unavailable")
	}
	switch system {
	case planSystemPrompt:
		return f.plan, nil
	case refineSystemPrompt:
		f.refineCalls++
		if f.refineCalls <= len(f.refined) {
			return f.refined[f.refineCalls-1], nil
		}
		return "refined query", nil
	case analyzeSystemPrompt:
		f.analyzeCalls++
		if f.analyzeCalls <= len(f.analyses) {
			return f.analyses[f.analyzeCalls-1], nil
		}
		return "still missing details", nil
	case synthesizeSystemPrompt:
		f.synthUser = user
		return f.final, nil
	}
	return "", errors.New("unknown system prompt")
}

type fakeGateway struct {
	batches [][]models.SearchResult
	queries []string
}

func (g *fakeGateway) Search(ctx context.Context, query string) []models.SearchResult {
	g.queries = append(g.queries, query)
	if len(g.queries) <= len(g.batches) {
		return g.batches[len(g.queries)-1]
	}
	return search.FallbackResults(query)
}

func realBatch(n int) []models.SearchResult {
	out := make([]models.SearchResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.SearchResult{
			Title: "result", Link: "https://example.com/a", Snippet: "snippet", Position: i + 1,
		})
	}
	return out
}

func newTestEngine(llm *fakeLLM, gw *fakeGateway) *Engine {
	cfg := config.ResearchConfig{MaxRounds: 2, MaxConsecutive: 2, SynthesisLimit: 2}
	return NewEngine(llm, gw, cfg, 0.4, log.New(os.Stderr, "[ENGINE] ", log.LstdFlags))
}

func TestRunStopsWhenAnalysisReportsSufficiency(t *testing.T) {
	llm := &fakeLLM{plan: "the plan", analyses: []string{"These results give me SUFFICIENT INFORMATION to answer."}, final: "answer"}
	gw := &fakeGateway{batches: [][]models.SearchResult{realBatch(3)}}

	resp, err := newTestEngine(llm, gw).Run(context.Background(), "q", realBatch(5), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if llm.refineCalls != 1 {
		t.Fatalf("expected 1 refinement round, got %d", llm.refineCalls)
	}
	if len(resp.TraceSteps) != 3 { // plan, search, analysis
		t.Fatalf("expected 3 trace steps, got %d", len(resp.TraceSteps))
	}
	if resp.FinalOutput == "" {
		t.Fatal("final output must be non-empty")
	}
}

func TestRunNeverExceedsRoundCap(t *testing.T) {
	llm := &fakeLLM{plan: "the plan", analyses: []string{"need more", "need even more"}, final: "answer"}
	gw := &fakeGateway{batches: [][]models.SearchResult{realBatch(3), realBatch(3), realBatch(3), realBatch(3)}}

	resp, err := newTestEngine(llm, gw).Run(context.Background(), "q", realBatch(5), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if llm.refineCalls != 2 {
		t.Fatalf("expected exactly 2 rounds, got %d", llm.refineCalls)
	}
	if len(resp.TraceSteps) != 5 { // plan + 2×(search, analysis)
		t.Fatalf("expected 5 trace steps, got %d", len(resp.TraceSteps))
	}
}

func TestRunHaltsEarlyWhenProviderUnreachable(t *testing.T) {
	// Initial batch is synthetic and round 1 falls back too: the failure
	// streak hits 2 after one round and the loop must stop before the cap.
	llm := &fakeLLM{plan: "the plan", final: "limited answer"}
	gw := &fakeGateway{} // always fallback

	resp, err := newTestEngine(llm, gw).Run(context.Background(), "best electric cars 2024", search.FallbackResults("best electric cars 2024"), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if llm.refineCalls != 1 {
		t.Fatalf("expected loop to halt after round 1, got %d rounds", llm.refineCalls)
	}
	if llm.analyzeCalls != 0 {
		t.Fatalf("fallback rounds must not be analyzed, got %d analyses", llm.analyzeCalls)
	}
	last := resp.TraceSteps[len(resp.TraceSteps)-1]
	if !strings.Contains(last.Observation, "proceeding with available information") {
		t.Fatalf("missing early-stop annotation in observation: %q", last.Observation)
	}
	if resp.FinalOutput != "limited answer" {
		t.Fatalf("expected synthesis to still run, got %q", resp.FinalOutput)
	}
}

func TestRunResetsFailureStreakOnRealResults(t *testing.T) {
	// Round 1 falls back (streak 1), round 2 finds real results: the streak
	// resets and the round is analyzed.
	llm := &fakeLLM{plan: "the plan", analyses: []string{"need more"}, final: "answer"}
	gw := &fakeGateway{batches: [][]models.SearchResult{search.FallbackResults("q"), realBatch(3)}}

	_, err := newTestEngine(llm, gw).Run(context.Background(), "q", realBatch(5), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if llm.refineCalls != 2 {
		t.Fatalf("expected 2 rounds, got %d", llm.refineCalls)
	}
	if llm.analyzeCalls != 1 {
		t.Fatalf("expected 1 analysis for the productive round, got %d", llm.analyzeCalls)
	}
}

func TestRunStripsQuotesFromRefinedQuery(t *testing.T) {
	llm := &fakeLLM{plan: "the plan", refined: []string{`"best schools"`}, analyses: []string{"has enough information"}, final: "answer"}
	gw := &fakeGateway{batches: [][]models.SearchResult{realBatch(3)}}

	resp, err := newTestEngine(llm, gw).Run(context.Background(), "q", realBatch(5), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gw.queries[0] != "best schools" {
		t.Fatalf("expected stripped query sent to gateway, got %q", gw.queries[0])
	}
	if !strings.Contains(resp.TraceSteps[1].Action, `"best schools"`) {
		t.Fatalf("search step should record the stripped query, got %q", resp.TraceSteps[1].Action)
	}
}

func TestRunSynthesisPromptIsTruncated(t *testing.T) {
	llm := &fakeLLM{plan: "PLAN-REFLECTION", analyses: []string{"ANALYSIS-ONE", "ANALYSIS-TWO"}, final: "answer"}
	gw := &fakeGateway{batches: [][]models.SearchResult{realBatch(3), realBatch(3)}}

	_, err := newTestEngine(llm, gw).Run(context.Background(), "q", realBatch(5), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"PLAN-REFLECTION", "ANALYSIS-ONE", "ANALYSIS-TWO"} {
		if !strings.Contains(llm.synthUser, want) {
			t.Fatalf("synthesis prompt missing %q", want)
		}
	}
	if strings.Contains(llm.synthUser, "search the web for") {
		t.Fatal("synthesis prompt must not include raw search steps")
	}
}

func TestRunPropagatesModelFailure(t *testing.T) {
	llm := &fakeLLM{plan: "the plan", failOn: planSystemPrompt}
	gw := &fakeGateway{}

	_, err := newTestEngine(llm, gw).Run(context.Background(), "q", realBatch(5), "")
	if err == nil {
		t.Fatal("expected planning failure to propagate")
	}
}

func TestHasSufficiencyMarker(t *testing.T) {
	cases := map[string]bool{
		"we now have sufficient information":  true,
		"There is Enough Information to act.": true,
		"insufficient data":                   false,
		"":                                    false,
	}
	for in, want := range cases {
		if got := hasSufficiencyMarker(in); got != want {
			t.Errorf("hasSufficiencyMarker(%q) = %v, want %v", in, got, want)
		}
	}
}
