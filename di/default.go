package di

import "sync/atomic"

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(New())
}

// Default returns the process-wide registry. Prefer passing an explicit
// Registry; Default exists for construction paths that cannot receive one.
func Default() *Registry { return defaultRegistry.Load() }

// SetDefault replaces the process-wide registry and returns the previous one.
// A nil r installs a fresh registry.
func SetDefault(r *Registry) *Registry {
	if r == nil {
		r = New()
	}
	return defaultRegistry.Swap(r)
}
