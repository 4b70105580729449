package di

import "reflect"

// Initializer is implemented by clients that can receive staged arguments
// directly. Instantiate calls Init when construction did not consume the stage.
type Initializer[T any] interface {
	Init(args T) error
}

// Validator is implemented by clients that check arguments before they are
// staged by Instantiate.
type Validator[T any] interface {
	Validate(args T) error
}

// CustomArgs is implemented by clients that may carry manually configured
// arguments. When HasCustomArgs reports true, TryGet discards locator results
// so the manual values are not overwritten.
type CustomArgs interface {
	HasCustomArgs() bool
}

// Destroyable is implemented by clients that can be torn down. Instantiate
// refuses to clone a destroyed original.
type Destroyable interface {
	IsDestroyed() bool
}

// capabilities is the classification of one (client type, signature) pair.
type capabilities struct {
	init       bool
	validate   bool
	customArgs bool
	destroy    bool
}

var (
	customArgsType  = reflect.TypeFor[CustomArgs]()
	destroyableType = reflect.TypeFor[Destroyable]()
)

// capabilitiesOf classifies clientType against signature T once per registry.
func capabilitiesOf[T any](r *Registry, clientType reflect.Type) capabilities {
	k := stageKey{client: clientType, sig: reflect.TypeFor[T]()}
	if c, ok := r.caps.Load(k); ok {
		return c.(capabilities)
	}
	c := capabilities{
		init:       clientType.Implements(reflect.TypeFor[Initializer[T]]()),
		validate:   clientType.Implements(reflect.TypeFor[Validator[T]]()),
		customArgs: clientType.Implements(customArgsType),
		destroy:    clientType.Implements(destroyableType),
	}
	actual, _ := r.caps.LoadOrStore(k, c)
	return actual.(capabilities)
}
