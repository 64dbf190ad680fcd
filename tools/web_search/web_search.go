package web_search

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/scout/models"
	"github.com/mohammad-safakhou/scout/tools/web_search/brave"
	"github.com/mohammad-safakhou/scout/tools/web_search/serper"
)

// WebSearcher executes one raw provider query. Retry and fallback live in the
// search gateway, not here.
type WebSearcher interface {
	Search(ctx context.Context, q string, k int) ([]models.SearchResult, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
