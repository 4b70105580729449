package di

import (
	"fmt"
	"reflect"
	"sync"
)

// Locator provides ambient services to TryGet when nothing is staged.
//
// It is intentionally:
// - read-only
// - side effect free
// - queried once per argument slot
//
// Expected usage:
//
//	val, ok, err := loc.Resolve(client, reflect.TypeFor[*Logger]())
type Locator interface {
	Resolve(client any, slot reflect.Type) (val any, ok bool, err error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(client any, slot reflect.Type) (any, bool, error)

// Resolve implements Locator.
func (f LocatorFunc) Resolve(client any, slot reflect.Type) (any, bool, error) {
	return f(client, slot)
}

// MapLocator is a simple in-memory locator keyed by type.
// It ignores the client (but keeps it in the signature so future locators can
// scope by requester).
//
// The zero value is ready to use. A nil *MapLocator resolves nothing.
type MapLocator struct {
	mu    sync.RWMutex
	items map[reflect.Type]any
}

func NewMapLocator() *MapLocator {
	return &MapLocator{items: map[reflect.Type]any{}}
}

// Provide stores a value under its dynamic type and returns the locator for
// chaining. Use ProvideAs to register under an interface type.
func (l *MapLocator) Provide(val any) *MapLocator {
	if val == nil {
		return l
	}
	return l.provide(reflect.TypeOf(val), val)
}

// ProvideAs stores val under the static type S.
func ProvideAs[S any](l *MapLocator, val S) *MapLocator {
	return l.provide(reflect.TypeFor[S](), val)
}

func (l *MapLocator) provide(t reflect.Type, val any) *MapLocator {
	l.mu.Lock()
	if l.items == nil {
		l.items = make(map[reflect.Type]any)
	}
	l.items[t] = val
	l.mu.Unlock()
	return l
}

// Resolve implements Locator.
func (l *MapLocator) Resolve(_ any, slot reflect.Type) (any, bool, error) {
	v, ok := l.Get(slot)
	return v, ok, nil
}

// Get returns the value if present (no panic).
func (l *MapLocator) Get(slot reflect.Type) (any, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.items[slot]
	return v, ok
}

// MustGet returns the value or panics with a helpful message.
// Useful in examples/tests where a missing service should fail fast.
func (l *MapLocator) MustGet(slot reflect.Type) any {
	v, ok := l.Get(slot)
	if !ok {
		panic(fmt.Errorf("di: locator missing type %q", slot.String()))
	}
	return v
}

// Lookup returns the service registered for S, typed.
func Lookup[S any](l *MapLocator) (S, bool) {
	var zero S
	v, ok := l.Get(reflect.TypeFor[S]())
	if !ok {
		return zero, false
	}
	s, ok := v.(S)
	return s, ok
}
