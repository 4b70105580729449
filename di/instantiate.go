package di

import (
	"fmt"
	"log/slog"
	"reflect"
)

// CloneFunc is the construction primitive Instantiate wraps. It returns a new
// instance of the original's concrete type and may, while doing so, run the
// clone's own initialization path that calls TryGet.
//
// Placement or other construction metadata is captured by the closure.
type CloneFunc[C any] func(original C) (C, error)

// Instantiate clones original and guarantees values reach the clone exactly
// once.
//
// values are staged for the original's concrete type, then clone runs. If the
// clone consumed the stage during construction nothing more happens.
// Otherwise Instantiate calls the clone's Init, or returns
// ArgumentsNotReceivedError when the clone type has no Init for T.
//
// If the original implements Validator[T], values are validated before they
// are staged. The stage entry never outlives the call.
func Instantiate[C, T any](r *Registry, original C, values T, clone CloneFunc[C]) (C, error) {
	var zero C
	if r == nil {
		return zero, InvalidArgumentError{Param: "registry"}
	}
	if clone == nil {
		return zero, InvalidArgumentError{Param: "clone"}
	}
	ct, err := checkOriginal[C, T](r, original)
	if err != nil {
		return zero, err
	}
	if err := validate(r, ct, original, values); err != nil {
		return zero, err
	}

	k := stageKey{client: ct, sig: reflect.TypeFor[T]()}
	gen := r.put(k, values, false)
	settled := false
	defer func() {
		if !settled {
			_, _ = r.remove(k, &gen)
		}
	}()

	out, err := clone(original)
	if err != nil {
		return zero, err
	}
	if isNil(any(out)) {
		return zero, InvalidArgumentError{Param: "clone result"}
	}

	e, err := r.remove(k, &gen)
	settled = true
	if err != nil {
		return zero, err
	}
	if e.consumedBy(any(out)) {
		r.log.Debug("arguments consumed during construction", slog.String("client", ct.String()))
		return out, nil
	}
	if err := deliver(r, out, values); err != nil {
		return zero, err
	}
	return out, nil
}

// checkOriginal rejects nil and destroyed originals and returns the stage key
// type.
func checkOriginal[C, T any](r *Registry, original C) (reflect.Type, error) {
	if isNil(any(original)) {
		return nil, InvalidArgumentError{Param: "original"}
	}
	ct := reflect.TypeOf(any(original))
	if capabilitiesOf[T](r, ct).destroy && any(original).(Destroyable).IsDestroyed() {
		return nil, InvalidArgumentError{Param: "original"}
	}
	return ct, nil
}

func validate[C, T any](r *Registry, ct reflect.Type, original C, values T) error {
	if !capabilitiesOf[T](r, ct).validate {
		return nil
	}
	if err := any(original).(Validator[T]).Validate(values); err != nil {
		return fmt.Errorf("di: validate %s: %w", ct, err)
	}
	return nil
}

// deliver hands values to a clone that did not consume them itself.
func deliver[C, T any](r *Registry, clone C, values T) error {
	ct := reflect.TypeOf(any(clone))
	if !capabilitiesOf[T](r, ct).init {
		r.log.Error("clone neither consumed nor accepts arguments", slog.String("client", ct.String()))
		return ArgumentsNotReceivedError{Type: ct.String()}
	}
	if err := any(clone).(Initializer[T]).Init(values); err != nil {
		return fmt.Errorf("di: init %s: %w", ct, err)
	}
	r.log.Debug("arguments delivered via Init", slog.String("client", ct.String()))
	return nil
}
