package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/scout/config"
	openai_provider "github.com/mohammad-safakhou/scout/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// ErrMissingAPIKey indicates a configuration error: the provider credential is
// absent. Checked once at construction, before any call is attempted.
var ErrMissingAPIKey = errors.New("llm api key not configured")

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	// Complete issues one completion call. It fails loudly (non-nil error)
	// rather than returning empty text when the provider is unreachable.
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return openai_provider.NewClient(cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.Timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
