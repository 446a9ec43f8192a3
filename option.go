package dispatch

import (
	"log/slog"
	"time"
)

// Option configures a Manager via the functional options pattern.
type Option func(*managerOptions)

type managerOptions struct {
	logger         *slog.Logger
	registry       *Registry
	provider       VerdictProvider
	workDir        string
	cacheTTL       time.Duration
	defaultTimeout time.Duration
}

func (o *managerOptions) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}
}

func resolveOptions(opts []Option) managerOptions {
	var o managerOptions
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *managerOptions) { o.logger = logger }
}

// WithRegistry supplies the in-process handler registry. Internal-kind
// configurations with no registered function are skipped at load time.
func WithRegistry(r *Registry) Option {
	return func(o *managerOptions) { o.registry = r }
}

// WithProvider supplies the model verdict capability. Without it,
// llm-kind configurations are skipped at load time with a logged notice.
func WithProvider(p VerdictProvider) Option {
	return func(o *managerOptions) { o.provider = p }
}

// WithWorkDir sets the search root for command handlers: relative script
// paths resolve against it and spawned processes run inside it.
func WithWorkDir(dir string) Option {
	return func(o *managerOptions) { o.workDir = dir }
}

// WithCacheTTL bounds how long model verdicts are reused for identical
// occurrences. Zero selects the adapter default.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *managerOptions) { o.cacheTTL = ttl }
}

// WithDefaultTimeout bounds handlers whose configuration sets no timeout
// of its own. Zero selects hook.DefaultTimeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *managerOptions) { o.defaultTimeout = d }
}
