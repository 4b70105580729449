package di

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// NewMapLocator / Provide
// -----------------------------------------------------------------------------

// TestNewMapLocator_Empty verifies NewMapLocator initializes a non-nil locator with an empty map.
func TestNewMapLocator_Empty(t *testing.T) {
	t.Parallel()

	l := NewMapLocator()
	require.NotNil(t, l)
	require.NotNil(t, l.items)
	assert.Len(t, l.items, 0)
}

// TestProvide_ChainsAndStores verifies Provide keys by dynamic type and returns the same locator.
func TestProvide_ChainsAndStores(t *testing.T) {
	t.Parallel()

	l := NewMapLocator()

	ret := l.Provide(1).Provide("x").Provide(nil)
	require.Same(t, l, ret)
	assert.Len(t, l.items, 2)

	gotA, okA := l.Get(reflect.TypeFor[int]())
	require.True(t, okA)
	assert.Equal(t, 1, gotA)

	gotB, okB := l.Get(reflect.TypeFor[string]())
	require.True(t, okB)
	assert.Equal(t, "x", gotB)
}

// TestProvideAs_InterfaceKey verifies ProvideAs keys by the static (interface) type.
func TestProvideAs_InterfaceKey(t *testing.T) {
	t.Parallel()

	l := NewMapLocator()
	ProvideAs[fmt.Stringer](l, reflect.TypeFor[int]())

	_, ok := l.Get(reflect.TypeFor[fmt.Stringer]())
	assert.True(t, ok)

	s, ok := Lookup[fmt.Stringer](l)
	require.True(t, ok)
	assert.Equal(t, "int", s.String())

	_, ok = Lookup[error](l)
	assert.False(t, ok)
}

//
// -----------------------------------------------------------------------------
// Resolve
// -----------------------------------------------------------------------------

// TestResolve_Present verifies Resolve returns the stored value and ok=true.
func TestResolve_Present(t *testing.T) {
	t.Parallel()

	l := NewMapLocator().Provide("v")

	val, ok, err := l.Resolve(struct{}{}, reflect.TypeFor[string]())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", val)
}

// TestResolve_Missing verifies Resolve returns (nil,false,nil) for missing types.
func TestResolve_Missing(t *testing.T) {
	t.Parallel()

	l := NewMapLocator()

	val, ok, err := l.Resolve(nil, reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}

// TestResolve_NilLocator verifies a nil *MapLocator resolves nothing.
func TestResolve_NilLocator(t *testing.T) {
	t.Parallel()

	var l *MapLocator

	val, ok, err := l.Resolve(nil, reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)

	_, ok = Lookup[int](l)
	assert.False(t, ok)
}

// TestMapLocator_ZeroValue verifies a MapLocator declared without
// NewMapLocator accepts services.
func TestMapLocator_ZeroValue(t *testing.T) {
	t.Parallel()

	var l MapLocator
	ProvideAs(l.Provide("svc"), 7)

	val, ok, err := l.Resolve(nil, reflect.TypeFor[string]())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "svc", val)

	n, ok := Lookup[int](&l)
	require.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestLocatorFunc(t *testing.T) {
	t.Parallel()

	var seen any
	f := LocatorFunc(func(client any, slot reflect.Type) (any, bool, error) {
		seen = client
		return slot.String(), true, nil
	})

	v, ok, err := f.Resolve("me", reflect.TypeFor[int]())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "int", v)
	assert.Equal(t, "me", seen)
}

//
// -----------------------------------------------------------------------------
// MustGet
// -----------------------------------------------------------------------------

// TestMustGet_Present verifies MustGet returns the stored value.
func TestMustGet_Present(t *testing.T) {
	t.Parallel()

	l := NewMapLocator().Provide("v")
	assert.Equal(t, "v", l.MustGet(reflect.TypeFor[string]()))
}

// TestMustGet_Missing verifies MustGet panics with a helpful message when the type is missing.
func TestMustGet_Missing(t *testing.T) {
	t.Parallel()

	l := NewMapLocator()

	require.PanicsWithError(t, `di: locator missing type "int"`, func() {
		_ = l.MustGet(reflect.TypeFor[int]())
	})
}
