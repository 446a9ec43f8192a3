package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/fieldpath"
)

// DefaultCacheTTL bounds how long a model verdict is reused for an
// identical (prompt, payload) pair.
const DefaultCacheTTL = 5 * time.Minute

// modelAdapter asks a provider for a structured verdict. The configured
// prompt template is rendered by substituting {{field.path}} placeholders
// from the payload; missing placeholders render as empty strings.
// Identical occurrences within the cache TTL skip the remote call.
type modelAdapter struct {
	name     string
	prompt   string
	provider Provider
	cache    *verdictCache
	logger   *slog.Logger
}

// NewModel creates the adapter for an llm-kind handler. A ttl of zero
// selects DefaultCacheTTL. The provider must be non-nil; the dispatch
// manager skips llm handlers at load time when no provider is configured.
func NewModel(cfg hook.Config, provider Provider, ttl time.Duration, logger *slog.Logger) Adapter {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &modelAdapter{
		name:     cfg.Name,
		prompt:   cfg.Prompt,
		provider: provider,
		cache:    newVerdictCache(ttl),
		logger:   logger,
	}
}

func (a *modelAdapter) Invoke(ctx context.Context, _ hook.Event, data json.RawMessage) (*hook.Verdict, error) {
	rendered := fieldpath.Render(a.prompt, data)

	key := cacheKey(rendered, data)
	if v, ok := a.cache.get(key); ok {
		a.logger.Debug("model verdict served from cache", "handler", a.name)
		return v, nil
	}

	raw, err := a.provider.Judge(ctx, rendered)
	if err != nil {
		return nil, fmt.Errorf("model judgement: %w", err)
	}

	verdict, err := parseWireVerdict([]byte(stripFences(string(raw))))
	if err != nil {
		return nil, err
	}

	a.cache.put(key, verdict)
	return verdict, nil
}
