package research

import (
	"strings"
	"testing"

	"github.com/mohammad-safakhou/scout/models"
)

func TestBuildResearchContextNumbersResultsByPosition(t *testing.T) {
	results := []models.SearchResult{
		{Title: "First", Link: "https://a.example.com", Snippet: "sa", Position: 1},
		{Title: "Second", Link: "https://b.example.com", Snippet: "sb", Position: 2},
	}
	out := BuildResearchContext("q", results, nil, "")

	if !strings.Contains(out, "1. First") || !strings.Contains(out, "2. Second") {
		t.Fatalf("results not numbered by position:\n%s", out)
	}
	if !strings.Contains(out, "https://a.example.com") {
		t.Fatalf("result link missing:\n%s", out)
	}
}

func TestBuildResearchContextOmitsEmptySections(t *testing.T) {
	out := BuildResearchContext("q", nil, nil, "")
	if strings.Contains(out, "Search results:") {
		t.Fatal("empty results must omit the section")
	}
	if strings.Contains(out, "Research trace:") {
		t.Fatal("empty trace must omit the section")
	}
	if strings.Contains(out, "Prior conversation:") {
		t.Fatal("empty prior context must omit the section")
	}
}

func TestBuildResearchContextRendersAllStepFields(t *testing.T) {
	steps := []models.TraceStep{
		{Thought: "T1", Action: "A1", Observation: "O1", Reflection: "R1"},
		{Thought: "T2", Action: "A2", Observation: "O2"},
	}
	out := BuildResearchContext("q", nil, steps, "")
	for _, want := range []string{"T1", "A1", "O1", "R1", "T2", "A2", "O2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("step field %q missing:\n%s", want, out)
		}
	}
	// a step without reflection must not render an empty reflection line
	if strings.Count(out, "Reflection:") != 1 {
		t.Fatalf("expected exactly one reflection line:\n%s", out)
	}
}

func TestBuildResearchContextAppendsPriorVerbatim(t *testing.T) {
	prior := "user: hello\nassistant: hi there\n"
	out := BuildResearchContext("q", nil, nil, prior)
	if !strings.Contains(out, prior) {
		t.Fatalf("prior context not appended verbatim:\n%s", out)
	}
}
