package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/adapter"
	"github.com/arlenner/agent-hooks-go/internal/fieldpath"
)

// Manager loads handler configurations, builds one adapter per handler at
// load time, and emits event occurrences to every applicable handler in
// priority order.
//
// Dispatch is sequential per occurrence: handlers for one emitted event
// run one after another so priority ordering and dependent side effects
// are deterministic. Independent occurrences may be emitted concurrently;
// the Manager holds no cross-occurrence mutable state beyond the
// mutex-guarded stats and skip maps.
type Manager struct {
	entries []managedHandler
	logger  *slog.Logger

	mu       sync.Mutex
	disabled map[string]bool
	stats    map[string]*handlerStats
}

type managedHandler struct {
	cfg     hook.Config
	adapter adapter.Adapter
	timeout time.Duration
}

type handlerStats struct {
	calls    int64
	errors   int64
	duration time.Duration
}

// HandlerStats is a snapshot of one handler's execution counters.
type HandlerStats struct {
	Calls         int64
	Errors        int64
	TotalDuration time.Duration
}

// HandlerInfo describes one loaded handler for listings.
type HandlerInfo struct {
	Name        string
	Kind        hook.Kind
	Priority    int
	Events      []hook.Event
	Enabled     bool
	Calls       int64
	Errors      int64
	Description string
}

// New validates the configuration set and builds the Manager. Loading
// fails fast on an invalid config or a duplicate name. Internal-kind
// configs with no registered function and llm-kind configs with no
// provider are skipped with a logged notice, not an error.
func New(configs []hook.Config, opts ...Option) (*Manager, error) {
	if err := hook.ValidateSet(configs); err != nil {
		return nil, err
	}
	o := resolveOptions(opts)

	m := &Manager{
		logger:   o.logger,
		disabled: make(map[string]bool),
		stats:    make(map[string]*handlerStats),
	}

	for _, cfg := range configs {
		if cfg.Disabled {
			m.logger.Debug("hook disabled in configuration", "handler", cfg.Name)
			continue
		}

		// The kind switch happens exactly once, here. Emissions only ever
		// see a built adapter.
		var a adapter.Adapter
		switch cfg.Kind {
		case hook.KindInternal:
			fn := o.registry.Get(cfg.Name)
			if fn == nil {
				m.logger.Info("internal hook has no registered function, skipping", "handler", cfg.Name)
				continue
			}
			a = adapter.NewFunc(fn)
		case hook.KindCommand:
			a = adapter.NewCommand(cfg, o.workDir, o.logger)
		case hook.KindInline:
			a = adapter.NewInline(cfg, o.logger)
		case hook.KindLLM:
			if o.provider == nil {
				m.logger.Info("no verdict provider configured, skipping llm hook", "handler", cfg.Name)
				continue
			}
			a = adapter.NewModel(cfg, o.provider, o.cacheTTL, o.logger)
		default:
			return nil, fmt.Errorf("%w: %q", hook.ErrUnknownKind, cfg.Kind)
		}

		timeout := cfg.EffectiveTimeout()
		if cfg.Timeout <= 0 && o.defaultTimeout > 0 {
			timeout = o.defaultTimeout
		}
		m.entries = append(m.entries, managedHandler{
			cfg:     cfg,
			adapter: a,
			timeout: timeout,
		})
		m.stats[cfg.Name] = &handlerStats{}
	}

	// Lower priority runs earlier; stable sort keeps declaration order
	// for ties, including across handler kinds.
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].cfg.Priority < m.entries[j].cfg.Priority
	})

	m.logger.Debug("hook manager loaded", "handlers", len(m.entries))
	return m, nil
}

// Emit dispatches one event occurrence to every applicable handler,
// sequentially in priority order, and returns all non-continue verdicts
// in invocation order. The Manager itself never decides allow or deny;
// that policy belongs to the integration wrappers.
//
// A handler that errors, panics, or exceeds its timeout is isolated: the
// failure is logged with the handler's name, an implicit continue is
// substituted, and the remaining handlers still run.
func (m *Manager) Emit(ctx context.Context, event hook.Event, data json.RawMessage) []hook.Verdict {
	occurrence := uuid.NewString()

	if event.SessionScoped() {
		if sid, ok := fieldpath.Lookup(data, "session_id"); !ok || sid == "" {
			m.logger.Debug("occurrence has no session_id", "event", string(event), "occurrence", occurrence)
		}
	}

	var verdicts []hook.Verdict
	for _, entry := range m.entries {
		if m.isDisabled(entry.cfg.Name) {
			continue
		}
		if !entry.cfg.Matcher.Matches(event, data) {
			continue
		}

		start := time.Now()
		verdict, err := m.invoke(ctx, entry, event, data)
		elapsed := time.Since(start)
		m.record(entry.cfg.Name, elapsed, err)

		if err != nil {
			m.logger.Error("hook failed",
				"handler", entry.cfg.Name, "event", string(event),
				"occurrence", occurrence, "error", err)
			continue
		}
		if verdict == nil || verdict.Action == hook.ActionContinue {
			continue
		}
		if verdict.Action == hook.ActionModify && len(verdict.ModifiedData) == 0 {
			m.logger.Warn("modify verdict without replacement payload, treating as continue",
				"handler", entry.cfg.Name, "event", string(event), "occurrence", occurrence)
			continue
		}

		v := *verdict
		v.Handler = entry.cfg.Name
		verdicts = append(verdicts, v)
	}

	return verdicts
}

// invoke runs one adapter bounded by its timeout, converting panics into
// adapter errors so one handler can never take down the dispatch.
func (m *Manager) invoke(ctx context.Context, entry managedHandler, event hook.Event, data json.RawMessage) (v *hook.Verdict, err error) {
	tctx, cancel := context.WithTimeout(ctx, entry.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("hook panicked: %v", r)
		}
	}()

	return entry.adapter.Invoke(tctx, event, data)
}

func (m *Manager) record(name string, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[name]
	if !ok {
		return
	}
	s.calls++
	s.duration += elapsed
	if err != nil {
		s.errors++
	}
}

func (m *Manager) isDisabled(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disabled[name]
}

// Disable skips the named handler on subsequent emissions. The loaded
// configuration itself is never mutated.
func (m *Manager) Disable(name string) bool {
	return m.setDisabled(name, true)
}

// Enable re-activates a handler previously disabled at runtime.
func (m *Manager) Enable(name string) bool {
	return m.setDisabled(name, false)
}

func (m *Manager) setDisabled(name string, disabled bool) bool {
	for _, entry := range m.entries {
		if entry.cfg.Name == name {
			m.mu.Lock()
			m.disabled[name] = disabled
			m.mu.Unlock()
			return true
		}
	}
	return false
}

// Stats returns a snapshot of per-handler execution counters.
func (m *Manager) Stats() map[string]HandlerStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]HandlerStats, len(m.stats))
	for name, s := range m.stats {
		out[name] = HandlerStats{Calls: s.calls, Errors: s.errors, TotalDuration: s.duration}
	}
	return out
}

// List describes the loaded handlers in execution order.
func (m *Manager) List() []HandlerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]HandlerInfo, 0, len(m.entries))
	for _, entry := range m.entries {
		info := HandlerInfo{
			Name:        entry.cfg.Name,
			Kind:        entry.cfg.Kind,
			Priority:    entry.cfg.Priority,
			Events:      entry.cfg.Matcher.Events,
			Enabled:     !m.disabled[entry.cfg.Name],
			Description: entry.cfg.Description,
		}
		if s, ok := m.stats[entry.cfg.Name]; ok {
			info.Calls, info.Errors = s.calls, s.errors
		}
		out = append(out, info)
	}
	return out
}
