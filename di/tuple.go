package di

import "reflect"

// Tuple2 holds two staged arguments. Arity 1 stages the value type directly;
// Tuple2 through Tuple12 cover arities 2 to 12.
type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

// Tuple3 holds three staged arguments.
type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

// Tuple4 holds four staged arguments.
type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

// Tuple5 holds five staged arguments.
type Tuple5[A, B, C, D, E any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
}

// Tuple6 holds six staged arguments.
type Tuple6[A, B, C, D, E, F any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
}

// Tuple7 holds seven staged arguments.
type Tuple7[A, B, C, D, E, F, G any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
	V7 G
}

// Tuple8 holds eight staged arguments.
type Tuple8[A, B, C, D, E, F, G, H any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
	V7 G
	V8 H
}

// Tuple9 holds nine staged arguments.
type Tuple9[A, B, C, D, E, F, G, H, I any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
	V7 G
	V8 H
	V9 I
}

// Tuple10 holds ten staged arguments.
type Tuple10[A, B, C, D, E, F, G, H, I, J any] struct {
	V1  A
	V2  B
	V3  C
	V4  D
	V5  E
	V6  F
	V7  G
	V8  H
	V9  I
	V10 J
}

// Tuple11 holds eleven staged arguments.
type Tuple11[A, B, C, D, E, F, G, H, I, J, K any] struct {
	V1  A
	V2  B
	V3  C
	V4  D
	V5  E
	V6  F
	V7  G
	V8  H
	V9  I
	V10 J
	V11 K
}

// Tuple12 holds twelve staged arguments.
type Tuple12[A, B, C, D, E, F, G, H, I, J, K, L any] struct {
	V1  A
	V2  B
	V3  C
	V4  D
	V5  E
	V6  F
	V7  G
	V8  H
	V9  I
	V10 J
	V11 K
	V12 L
}

// Of2 builds a Tuple2.
func Of2[A, B any](a A, b B) Tuple2[A, B] { return Tuple2[A, B]{a, b} }

// Of3 builds a Tuple3.
func Of3[A, B, C any](a A, b B, c C) Tuple3[A, B, C] { return Tuple3[A, B, C]{a, b, c} }

// Of4 builds a Tuple4.
func Of4[A, B, C, D any](a A, b B, c C, d D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{a, b, c, d}
}

// Of5 builds a Tuple5.
func Of5[A, B, C, D, E any](a A, b B, c C, d D, e E) Tuple5[A, B, C, D, E] {
	return Tuple5[A, B, C, D, E]{a, b, c, d, e}
}

// Of6 builds a Tuple6.
func Of6[A, B, C, D, E, F any](a A, b B, c C, d D, e E, f F) Tuple6[A, B, C, D, E, F] {
	return Tuple6[A, B, C, D, E, F]{a, b, c, d, e, f}
}

// Of7 builds a Tuple7.
func Of7[A, B, C, D, E, F, G any](a A, b B, c C, d D, e E, f F, g G) Tuple7[A, B, C, D, E, F, G] {
	return Tuple7[A, B, C, D, E, F, G]{a, b, c, d, e, f, g}
}

// Of8 builds a Tuple8.
func Of8[A, B, C, D, E, F, G, H any](a A, b B, c C, d D, e E, f F, g G, h H) Tuple8[A, B, C, D, E, F, G, H] {
	return Tuple8[A, B, C, D, E, F, G, H]{a, b, c, d, e, f, g, h}
}

// Of9 builds a Tuple9.
func Of9[A, B, C, D, E, F, G, H, I any](a A, b B, c C, d D, e E, f F, g G, h H, i I) Tuple9[A, B, C, D, E, F, G, H, I] {
	return Tuple9[A, B, C, D, E, F, G, H, I]{a, b, c, d, e, f, g, h, i}
}

// Of10 builds a Tuple10.
func Of10[A, B, C, D, E, F, G, H, I, J any](a A, b B, c C, d D, e E, f F, g G, h H, i I, j J) Tuple10[A, B, C, D, E, F, G, H, I, J] {
	return Tuple10[A, B, C, D, E, F, G, H, I, J]{a, b, c, d, e, f, g, h, i, j}
}

// Of11 builds a Tuple11.
func Of11[A, B, C, D, E, F, G, H, I, J, K any](a A, b B, c C, d D, e E, f F, g G, h H, i I, j J, k K) Tuple11[A, B, C, D, E, F, G, H, I, J, K] {
	return Tuple11[A, B, C, D, E, F, G, H, I, J, K]{a, b, c, d, e, f, g, h, i, j, k}
}

// Of12 builds a Tuple12.
func Of12[A, B, C, D, E, F, G, H, I, J, K, L any](a A, b B, c C, d D, e E, f F, g G, h H, i I, j J, k K, l L) Tuple12[A, B, C, D, E, F, G, H, I, J, K, L] {
	return Tuple12[A, B, C, D, E, F, G, H, I, J, K, L]{a, b, c, d, e, f, g, h, i, j, k, l}
}

// tuple marks the TupleN structs so their fields are treated as slots.
// Any other type, including user structs, is a single slot.
type tuple interface{ isTuple() }

func (Tuple2[A, B]) isTuple()                                {}
func (Tuple3[A, B, C]) isTuple()                             {}
func (Tuple4[A, B, C, D]) isTuple()                          {}
func (Tuple5[A, B, C, D, E]) isTuple()                       {}
func (Tuple6[A, B, C, D, E, F]) isTuple()                    {}
func (Tuple7[A, B, C, D, E, F, G]) isTuple()                 {}
func (Tuple8[A, B, C, D, E, F, G, H]) isTuple()              {}
func (Tuple9[A, B, C, D, E, F, G, H, I]) isTuple()           {}
func (Tuple10[A, B, C, D, E, F, G, H, I, J]) isTuple()       {}
func (Tuple11[A, B, C, D, E, F, G, H, I, J, K]) isTuple()    {}
func (Tuple12[A, B, C, D, E, F, G, H, I, J, K, L]) isTuple() {}

var tupleType = reflect.TypeFor[tuple]()

func isTupleType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(tupleType)
}

// Arity returns the number of argument slots in signature T.
func Arity[T any]() int {
	return len(slotTypes(reflect.TypeFor[T]()))
}

// slotTypes returns the per-slot types of a signature, in order.
func slotTypes(sig reflect.Type) []reflect.Type {
	if !isTupleType(sig) {
		return []reflect.Type{sig}
	}
	out := make([]reflect.Type, sig.NumField())
	for i := range out {
		out[i] = sig.Field(i).Type
	}
	return out
}

// fromSlots assembles a T from per-slot values. ok is false when the count is
// wrong or a value is not assignable to its slot.
func fromSlots[T any](vals []any) (out T, ok bool) {
	rv := reflect.ValueOf(&out).Elem()
	if !isTupleType(rv.Type()) {
		if len(vals) != 1 || !assignSlot(rv, vals[0]) {
			var zero T
			return zero, false
		}
		return out, true
	}
	if len(vals) != rv.NumField() {
		return out, false
	}
	for i, v := range vals {
		if !assignSlot(rv.Field(i), v) {
			var zero T
			return zero, false
		}
	}
	return out, true
}

func assignSlot(dst reflect.Value, v any) bool {
	if v == nil {
		return nillable(dst.Type())
	}
	src := reflect.ValueOf(v)
	if !src.Type().AssignableTo(dst.Type()) {
		return false
	}
	dst.Set(src)
	return true
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
