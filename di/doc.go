// Package di stages initialization arguments for objects whose construction
// is owned by something else.
//
// A producer stages a typed argument tuple for a client type, something else
// constructs the client (a clone primitive, a pool, an engine), and the client
// consumes the staged values exactly once while it initializes:
//
//	reg := di.New()
//	_, _ = di.Set(reg, reflect.TypeFor[*Enemy](), di.Of2(100, "grunt"))
//
//	// inside the construction path of *Enemy
//	args, ok, err := di.TryGet[di.Tuple2[int, string]](reg, di.PhaseRuntime, e)
//
// Arity 1 uses the value type directly; arities 2..12 use Tuple2..Tuple12. The
// tuple type is the stage signature, so one registry serves every arity. A
// client that needs more values stages a struct of its own, which counts as a
// single slot.
//
// When nothing is staged, TryGet falls back to a Locator (when the phase allows
// ambient services) and then to an AutoResolver (edit-time phases only).
// Not-found is a normal result, never an error.
//
// Instantiate wraps a construction primitive and guarantees exactly-once
// delivery: if the clone did not consume the staged values while it was being
// built, Instantiate calls its Init method, or fails with
// ArgumentsNotReceivedError when it has none.
//
// This is not a container. There is no object graph, no lifetimes and no
// cycle detection; the registry only hands off one tuple per key.
//
// Import
//
//	"github.com/sghaida/odistage/di"
package di
