package models

import (
	"errors"
	"time"
)

// ErrChatNotFound is returned when a chat id has no stored history
var ErrChatNotFound = errors.New("chat not found")

// SearchResult is a single web search hit. Position is the 1-based rank as
// returned by the provider; links are not de-duplicated.
type SearchResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// TraceStep is one recorded unit of reasoning. Steps are append-only;
// Observation is the only field updated after creation, once the action it
// describes has resolved.
type TraceStep struct {
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
	Reflection  string `json:"reflection,omitempty"`
}

// ResearchResponse is the terminal output of one research invocation.
// Immutable once returned.
type ResearchResponse struct {
	TraceSteps  []TraceStep `json:"trace_steps"`
	FinalOutput string      `json:"final_output"`
}

// ChatMessage is one turn of a conversation as stored in the chat repository.
// Assistant turns carry the full ResearchResponse so the trace can be replayed.
type ChatMessage struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"` // "user" or "assistant"
	Content   string            `json:"content"`
	Response  *ResearchResponse `json:"response,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
