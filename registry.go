package dispatch

import (
	"sync"

	"github.com/arlenner/agent-hooks-go/hook"
)

// Registry holds in-process handler functions by name. It is constructed
// explicitly and passed to the Manager at load time; there is no ambient
// global registry. It is concurrent-safe.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]hook.Func
	order []string // preserve registration order
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]hook.Func)}
}

// Register binds fn to name. Registering the same name again replaces the
// previous function. The name must match an internal-kind Config name to
// take effect.
func (r *Registry) Register(name string, fn hook.Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.funcs[name]; !exists {
		r.order = append(r.order, name)
	}
	r.funcs[name] = fn
}

// Get returns the function registered under name, or nil.
func (r *Registry) Get(name string) hook.Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.funcs[name]
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
