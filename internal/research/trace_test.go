package research

import (
	"reflect"
	"testing"

	"github.com/mohammad-safakhou/scout/models"
)

func TestSynthesisStepsKeepsPlanAndRecentAnalyses(t *testing.T) {
	steps := []models.TraceStep{
		{Thought: "plan", Reflection: "the plan"},
		{Thought: "search 1"},
		{Thought: "analysis 1", Reflection: "r1"},
		{Thought: "search 2"},
		{Thought: "analysis 2", Reflection: "r2"},
		{Thought: "search 3"},
		{Thought: "analysis 3", Reflection: "r3"},
	}
	got := synthesisSteps(steps, 2)
	want := []models.TraceStep{steps[0], steps[4], steps[6]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected subset:\n want %+v\n got %+v", want, got)
	}
}

func TestSynthesisStepsSkipsEmptyReflections(t *testing.T) {
	steps := []models.TraceStep{
		{Thought: "plan", Reflection: "the plan"},
		{Thought: "search 1"},
		{Thought: "search 2"},
	}
	got := synthesisSteps(steps, 2)
	if len(got) != 1 || got[0].Thought != "plan" {
		t.Fatalf("expected plan step only, got %+v", got)
	}
}

func TestSynthesisStepsEmptyTrace(t *testing.T) {
	if got := synthesisSteps(nil, 2); got != nil {
		t.Fatalf("expected nil for empty trace, got %+v", got)
	}
}
