// Package search wraps a web search provider behind a gateway that retries
// transient failures and degrades to deterministic synthetic results instead
// of surfacing an error. Callers can rely on Search never failing.
package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/retry"
	"github.com/mohammad-safakhou/scout/internal/telemetry"
	"github.com/mohammad-safakhou/scout/models"
	"github.com/mohammad-safakhou/scout/tools/web_search"
)

// fallbackDomains host the synthetic results. Downstream consumers detect
// "no real data" by checking links against this set, so the exact domains are
// load-bearing; keep them in sync with IsFallback.
var fallbackDomains = []string{
	"research-placeholder-1.invalid",
	"research-placeholder-2.invalid",
	"research-placeholder-3.invalid",
	"research-placeholder-4.invalid",
	"research-placeholder-5.invalid",
}

const fallbackResultCount = 5

// Gateway performs bounded-retry searches with synthetic fallback.
type Gateway struct {
	searcher       web_search.WebSearcher
	logger         *log.Logger
	resultCount    int
	attemptTimeout time.Duration
	maxAttempts    int
	backoffUnit    time.Duration
}

// NewGateway builds a gateway from config. The logger must not be nil.
func NewGateway(searcher web_search.WebSearcher, cfg config.SearchConfig, logger *log.Logger) *Gateway {
	g := &Gateway{
		searcher:       searcher,
		logger:         logger,
		resultCount:    cfg.ResultCount,
		attemptTimeout: cfg.Timeout,
		maxAttempts:    cfg.MaxAttempts,
		backoffUnit:    cfg.BackoffUnit,
	}
	if g.resultCount <= 0 {
		g.resultCount = fallbackResultCount
	}
	if g.attemptTimeout <= 0 {
		g.attemptTimeout = 20 * time.Second
	}
	if g.maxAttempts <= 0 {
		g.maxAttempts = 3
	}
	if g.backoffUnit <= 0 {
		g.backoffUnit = 2 * time.Second
	}
	return g
}

// Search runs one query and always returns a usable batch: real provider
// results when any attempt succeeds, a synthetic batch otherwise. Wrapping
// quotes are stripped from the query before dispatch.
func (g *Gateway) Search(ctx context.Context, query string) []models.SearchResult {
	query = StripQuotes(query)

	var results []models.SearchResult
	err := retry.Do(ctx, g.maxAttempts, retry.Linear(g.backoffUnit), nil, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()

		out, err := g.searcher.Search(attemptCtx, query, g.resultCount)
		if err != nil {
			telemetry.SearchAttempts.WithLabelValues("error").Inc()
			return err
		}
		if len(out) == 0 {
			telemetry.SearchAttempts.WithLabelValues("empty").Inc()
			return fmt.Errorf("empty result set for %q", query)
		}
		telemetry.SearchAttempts.WithLabelValues("ok").Inc()
		results = out
		return nil
	})
	if err != nil {
		g.logger.Printf("search failed after %d attempts for %q: %v; using fallback results", g.maxAttempts, query, err)
		telemetry.SearchFallbacks.Inc()
		return FallbackResults(query)
	}
	return results
}

// FallbackResults produces the deterministic synthetic batch for a query.
func FallbackResults(query string) []models.SearchResult {
	out := make([]models.SearchResult, 0, fallbackResultCount)
	for i := 0; i < fallbackResultCount; i++ {
		out = append(out, models.SearchResult{
			Title:    fmt.Sprintf("Result %d for %s", i+1, query),
			Link:     fmt.Sprintf("https://%s/search?q=%d", fallbackDomains[i], i+1),
			Snippet:  fmt.Sprintf("Placeholder information about %s (no live search data available).", query),
			Position: i + 1,
		})
	}
	return out
}

// IsFallback reports whether every link in the batch points at a placeholder
// domain. An empty batch counts as fallback.
func IsFallback(results []models.SearchResult) bool {
	if len(results) == 0 {
		return true
	}
	for _, r := range results {
		if !isFallbackLink(r.Link) {
			return false
		}
	}
	return true
}

func isFallbackLink(link string) bool {
	for _, d := range fallbackDomains {
		if strings.Contains(link, d) {
			return true
		}
	}
	return false
}

// StripQuotes removes one layer of wrapping quote characters from a query.
func StripQuotes(q string) string {
	q = strings.TrimSpace(q)
	for len(q) >= 2 {
		first, last := q[0], q[len(q)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			q = strings.TrimSpace(q[1 : len(q)-1])
			continue
		}
		break
	}
	return q
}
