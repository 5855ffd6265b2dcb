package field

import (
	"sort"
	"sync"
)

// Plugin produces descriptors for plugin fields with a matching key.
type Plugin interface {
	// Key is the name plugin fields refer to.
	Key() string

	// Descriptors expands one plugin field. Disabled descriptors are
	// dropped; the rest are sanitized like built-in kinds.
	Descriptors(f PluginField) []Descriptor
}

// Registry maps plugin keys to plugins. It is safe for concurrent use; the
// zero value is not usable, call NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p, replacing any plugin with the same key.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	r.plugins[p.Key()] = p
	r.mu.Unlock()
}

// Unregister removes the plugin with the given key.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	delete(r.plugins, key)
	r.mu.Unlock()
}

// Lookup returns the plugin registered under key. A nil registry has no
// plugins.
func (r *Registry) Lookup(key string) (Plugin, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	p, ok := r.plugins[key]
	r.mu.RUnlock()
	return p, ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	keys := make([]string, 0, len(r.plugins))
	for k := range r.plugins {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// PluginFunc adapts a function to Plugin.
type PluginFunc struct {
	Name string
	Fn   func(PluginField) []Descriptor
}

// Key implements Plugin.
func (p PluginFunc) Key() string { return p.Name }

// Descriptors implements Plugin.
func (p PluginFunc) Descriptors(f PluginField) []Descriptor { return p.Fn(f) }
