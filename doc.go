// Package odistage is the root of the staged initialization-argument registry.
//
// Go constructors take arguments; clone-based runtimes do not. When objects
// are created by copying a prototype, the copy has no way to receive
// per-instance values. odistage bridges that gap: a producer stages a typed
// argument tuple keyed by the client's type, the clone reads it once during
// construction or receives it through Init afterwards, and the stage is
// cleared on every path.
//
// Layout:
//   - di: the registry, typed tuples, Instantiate and InstantiateBatch
//   - internal/config: viper-backed settings (ODI_* environment overrides)
//   - internal/logging: slog handler selection
//   - cmd/argsgen: generates typed Stage/TryGet/Instantiate helpers
//   - examples/spawner: runnable prototype-cloning example
package odistage
