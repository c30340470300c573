// ABOUTME: Method registry mapping JSON-RPC method names to handlers
// ABOUTME: Built at server construction, read-only during request handling

package registry

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Handler is the unit of logic bound to a method name. Implementations
// receive raw params and return a JSON-serializable result. Returning a
// *jsonrpc.Error preserves its code; any other error is treated as a
// handler fault by the dispatcher.
type Handler interface {
	Call(ctx context.Context, params json.RawMessage) (any, error)
}

// Registry holds the method table for one server instance. Names are
// case-sensitive and unique; Register overwrites silently.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]Handler
}

func New() *Registry {
	return &Registry{methods: make(map[string]Handler)}
}

// Register binds handler to name, replacing any existing binding.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[name] = handler
}

// Lookup returns the handler bound to name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.methods[name]
	return handler, ok
}

// Clear removes all bindings. Used by tests to reset state wholesale.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = make(map[string]Handler)
}

// Names returns the registered method names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered methods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}
