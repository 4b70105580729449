package di

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Phase tells TryGet which fallbacks are safe to consult.
type Phase uint8

const (
	// PhaseServices allows querying the ambient Locator.
	PhaseServices Phase = 1 << iota
	// PhaseEditTime allows structural auto-resolution. Tooling only.
	PhaseEditTime
)

const (
	// PhaseStagedOnly consults the stage and nothing else.
	PhaseStagedOnly Phase = 0
	// PhaseRuntime is normal execution with services available.
	PhaseRuntime = PhaseServices
	// PhaseEditor is tooling with services available.
	PhaseEditor = PhaseServices | PhaseEditTime
)

// Has reports whether every flag in f is set.
func (p Phase) Has(f Phase) bool { return p&f == f }

func (p Phase) String() string {
	if p == PhaseStagedOnly {
		return "staged-only"
	}
	var parts []string
	if p.Has(PhaseServices) {
		parts = append(parts, "services")
	}
	if p.Has(PhaseEditTime) {
		parts = append(parts, "edit-time")
	}
	return strings.Join(parts, "|")
}

// TryGet resolves the arguments for client, keyed by client's runtime type
// and signature T. Resolution stops at the first success:
//
//  1. a staged entry, consumed atomically (each entry is handed out once)
//  2. the Locator, if phase has PhaseServices; each slot resolved on its own.
//     A client reporting HasCustomArgs discards the result and gets not-found.
//  3. the AutoResolver, if phase has PhaseEditTime
//
// Not-found returns (zero, false, nil). Only a nil registry or client is an error.
func TryGet[T any](r *Registry, phase Phase, client any) (T, bool, error) {
	var zero T
	if r == nil {
		return zero, false, InvalidArgumentError{Param: "registry"}
	}
	if isNil(client) {
		return zero, false, InvalidArgumentError{Param: "client"}
	}

	ct := reflect.TypeOf(client)
	sig := reflect.TypeFor[T]()

	if v, ok := r.consume(stageKey{client: ct, sig: sig}, client); ok {
		// v is nil only when T is an interface staged as nil.
		out, _ := v.(T)
		return out, true, nil
	}

	if phase.Has(PhaseServices) && r.locator != nil {
		if vals, ok := r.locate(client, sig); ok {
			caps := capabilitiesOf[T](r, ct)
			if caps.customArgs && client.(CustomArgs).HasCustomArgs() {
				r.log.Debug("discarding located arguments for client with custom arguments",
					slog.String("client", ct.String()))
				return zero, false, nil
			}
			if out, ok := fromSlots[T](vals); ok {
				return out, true, nil
			}
		}
	}

	if phase.Has(PhaseEditTime) && r.auto != nil {
		if vals, ok := r.autoResolve(ct, sig); ok {
			if out, ok := fromSlots[T](vals); ok {
				return out, true, nil
			}
		}
	}

	return zero, false, nil
}

// locate resolves every slot of sig through the locator. Any miss, error or
// panic fails the whole lookup.
func (r *Registry) locate(client any, sig reflect.Type) ([]any, bool) {
	slots := slotTypes(sig)
	vals := make([]any, len(slots))
	for i, st := range slots {
		v, found, err := r.resolveSlot(client, st)
		if err != nil {
			r.log.Debug("locator failed", slog.String("slot", st.String()), slog.Any("error", err))
			return nil, false
		}
		if !found {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// resolveSlot queries the locator for one slot. A panic is returned as an
// error wrapping ErrLocatorPanic.
func (r *Registry) resolveSlot(client any, slot reflect.Type) (v any, found bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, found, err = nil, false, fmt.Errorf("%w: %v", ErrLocatorPanic, rec)
		}
	}()
	return r.locator.Resolve(client, slot)
}

func (r *Registry) autoResolve(ct, sig reflect.Type) (vals []any, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Debug("auto resolver panicked", slog.Any("panic", rec))
			vals, ok = nil, false
		}
	}()
	return r.auto.AutoResolve(ct, slotTypes(sig))
}
