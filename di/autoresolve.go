package di

import (
	"reflect"
	"sync"
)

// AutoResolver synthesizes arguments from a client type's declared slots.
// It is tooling-only: TryGet consults it in PhaseEditTime only.
type AutoResolver interface {
	AutoResolve(client reflect.Type, slots []reflect.Type) (vals []any, ok bool)
}

// AutoResolverFunc adapts a function to AutoResolver.
type AutoResolverFunc func(client reflect.Type, slots []reflect.Type) ([]any, bool)

// AutoResolve implements AutoResolver.
func (f AutoResolverFunc) AutoResolve(client reflect.Type, slots []reflect.Type) ([]any, bool) {
	return f(client, slots)
}

// StructuralResolver fills each slot from a registered prototype, or
// synthesizes one from the slot type: zero values for plain types, empty
// maps and slices, and a fresh allocation for pointers. Interface, func and
// channel slots need a prototype.
type StructuralResolver struct {
	mu         sync.RWMutex
	prototypes map[reflect.Type]any
}

func NewStructuralResolver() *StructuralResolver {
	return &StructuralResolver{prototypes: map[reflect.Type]any{}}
}

// Prototype registers val under its dynamic type.
func (s *StructuralResolver) Prototype(val any) *StructuralResolver {
	if val == nil {
		return s
	}
	return s.prototype(reflect.TypeOf(val), val)
}

// PrototypeAs registers val under the static type S.
func PrototypeAs[S any](s *StructuralResolver, val S) *StructuralResolver {
	return s.prototype(reflect.TypeFor[S](), val)
}

func (s *StructuralResolver) prototype(t reflect.Type, val any) *StructuralResolver {
	s.mu.Lock()
	s.prototypes[t] = val
	s.mu.Unlock()
	return s
}

// AutoResolve implements AutoResolver. It is all-or-nothing.
func (s *StructuralResolver) AutoResolve(_ reflect.Type, slots []reflect.Type) ([]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]any, len(slots))
	for i, t := range slots {
		if p, ok := s.prototypes[t]; ok {
			out[i] = p
			continue
		}
		v, ok := synthesize(t)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func synthesize(t reflect.Type) (any, bool) {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, false
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Interface {
			return nil, false
		}
		return reflect.New(t.Elem()).Interface(), true
	case reflect.Map:
		return reflect.MakeMap(t).Interface(), true
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface(), true
	default:
		return reflect.Zero(t).Interface(), true
	}
}
