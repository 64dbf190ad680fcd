package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestResearchResponseRoundTrip(t *testing.T) {
	resp := ResearchResponse{
		TraceSteps: []TraceStep{
			{Thought: "plan", Action: "review results", Observation: "drafted plan", Reflection: "search broadly first"},
			{Thought: "round 1", Action: "search", Observation: "found 5 live results"},
			{Thought: "assess", Action: "analyze", Observation: "analysis recorded", Reflection: "sufficient information"},
		},
		FinalOutput: "the answer",
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got ResearchResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(resp, got) {
		t.Fatalf("round trip mismatch:\n want %+v\n got %+v", resp, got)
	}
}
