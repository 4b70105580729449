package di

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generation identifies one Set. Clearing with a stale generation reports a
// GenerationConflictError instead of removing another producer's entry.
type Generation = uuid.UUID

// stageKey is (client type, signature). The signature encodes the arity.
type stageKey struct {
	client reflect.Type
	sig    reflect.Type
}

type entry struct {
	values   any
	gen      Generation
	stagedAt time.Time
	received bool

	// broadcast entries admit one consumption per client pointer.
	broadcast bool
	consumers map[any]struct{}
}

// Registry holds pending argument tuples keyed by client type and signature.
//
// Every Set, consuming TryGet and Clear is atomic on its own. The sequence
// Set -> construction -> Clear is not; Instantiate detects an interleaved Set
// on the same key through the entry's Generation.
//
// A Registry is safe for concurrent use. The zero value is not usable; call New.
type Registry struct {
	mu     sync.Mutex
	stages map[stageKey]*entry

	locator Locator
	auto    AutoResolver
	log     *slog.Logger

	// caps caches capability classification per stageKey.
	caps sync.Map

	warnOnOverwrite  bool
	warnOnUnconsumed bool
	maxConcurrency   int
	now              func() time.Time
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		stages:           make(map[stageKey]*entry),
		log:              slog.New(slog.DiscardHandler),
		warnOnOverwrite:  true,
		warnOnUnconsumed: true,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Set stages values for clientType, replacing any pending entry for the same
// client type and signature.
func Set[T any](r *Registry, clientType reflect.Type, values T) (Generation, error) {
	if r == nil {
		return uuid.Nil, InvalidArgumentError{Param: "registry"}
	}
	if clientType == nil {
		return uuid.Nil, InvalidArgumentError{Param: "clientType"}
	}
	return r.put(stageKey{client: clientType, sig: reflect.TypeFor[T]()}, values, false), nil
}

// SetFor is Set keyed by the static type C. C must be the concrete type the
// client will have at runtime (usually a pointer type), not an interface.
func SetFor[C, T any](r *Registry, values T) (Generation, error) {
	return Set(r, reflect.TypeFor[C](), values)
}

// Clear removes the entry for clientType. It reports true only if an entry
// existed and was never consumed, which usually means the client ignored the
// values it was given.
func Clear[T any](r *Registry, clientType reflect.Type) (bool, error) {
	if r == nil {
		return false, InvalidArgumentError{Param: "registry"}
	}
	if clientType == nil {
		return false, InvalidArgumentError{Param: "clientType"}
	}
	k := stageKey{client: clientType, sig: reflect.TypeFor[T]()}
	e, _ := r.remove(k, nil)
	return r.unconsumed(k, e), nil
}

// ClearFor is Clear keyed by the static type C.
func ClearFor[C, T any](r *Registry) (bool, error) {
	return Clear[T](r, reflect.TypeFor[C]())
}

// ClearGeneration is Clear restricted to the entry created by gen. If the
// entry was replaced by another Set it is left in place and a
// GenerationConflictError is returned.
func ClearGeneration[T any](r *Registry, clientType reflect.Type, gen Generation) (bool, error) {
	if r == nil {
		return false, InvalidArgumentError{Param: "registry"}
	}
	if clientType == nil {
		return false, InvalidArgumentError{Param: "clientType"}
	}
	k := stageKey{client: clientType, sig: reflect.TypeFor[T]()}
	e, err := r.remove(k, &gen)
	if err != nil {
		return false, err
	}
	return r.unconsumed(k, e), nil
}

// Received reports whether an entry exists for client's runtime type and has
// been consumed.
func Received[T any](r *Registry, client any) (bool, error) {
	if r == nil {
		return false, InvalidArgumentError{Param: "registry"}
	}
	if isNil(client) {
		return false, InvalidArgumentError{Param: "client"}
	}
	k := stageKey{client: reflect.TypeOf(client), sig: reflect.TypeFor[T]()}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stages[k]
	return ok && e.received, nil
}

// Reset drops every pending entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	n := len(r.stages)
	clear(r.stages)
	r.mu.Unlock()

	r.log.Debug("stage reset", slog.Int("dropped", n))
}

// EntryInfo describes a pending stage entry.
type EntryInfo struct {
	Client     string
	Signature  string
	Arity      int
	Received   bool
	Broadcast  bool
	Consumers  int
	Generation Generation
	StagedAt   time.Time
}

// Pending returns a snapshot of all entries, sorted by client then signature.
func (r *Registry) Pending() []EntryInfo {
	r.mu.Lock()
	out := make([]EntryInfo, 0, len(r.stages))
	for k, e := range r.stages {
		out = append(out, EntryInfo{
			Client:     k.client.String(),
			Signature:  k.sig.String(),
			Arity:      len(slotTypes(k.sig)),
			Received:   e.received,
			Broadcast:  e.broadcast,
			Consumers:  len(e.consumers),
			Generation: e.gen,
			StagedAt:   e.stagedAt,
		})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Client != out[j].Client {
			return out[i].Client < out[j].Client
		}
		return out[i].Signature < out[j].Signature
	})
	return out
}

// put writes a fresh, unconsumed entry and returns its generation.
func (r *Registry) put(k stageKey, values any, broadcast bool) Generation {
	e := &entry{
		values:    values,
		gen:       uuid.New(),
		stagedAt:  r.now(),
		broadcast: broadcast,
	}
	if broadcast {
		e.consumers = make(map[any]struct{})
	}

	r.mu.Lock()
	prev := r.stages[k]
	r.stages[k] = e
	r.mu.Unlock()

	if prev != nil && !prev.received && r.warnOnOverwrite {
		r.log.Warn("overwriting unconsumed stage entry",
			slog.String("client", k.client.String()),
			slog.String("signature", k.sig.String()),
			slog.String("previous_generation", prev.gen.String()),
		)
	}
	r.log.Debug("staged",
		slog.String("client", k.client.String()),
		slog.String("signature", k.sig.String()),
		slog.String("generation", e.gen.String()),
		slog.Bool("broadcast", broadcast),
	)
	return e.gen
}

// consume marks the entry received for client and returns its values. A
// consumed entry is never handed out twice, except that a broadcast entry is
// handed out once per client pointer.
func (r *Registry) consume(k stageKey, client any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stages[k]
	if !ok {
		return nil, false
	}

	if e.broadcast {
		if _, seen := e.consumers[client]; seen {
			return nil, false
		}
		e.consumers[client] = struct{}{}
		e.received = true
		return e.values, true
	}

	if e.received {
		return nil, false
	}
	cp := *e
	cp.received = true
	r.stages[k] = &cp
	return cp.values, true
}

// remove deletes the entry for k. When gen is non-nil the entry is only
// removed if it still carries that generation.
func (r *Registry) remove(k stageKey, gen *Generation) (*entry, error) {
	r.mu.Lock()
	e, ok := r.stages[k]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	if gen != nil && e.gen != *gen {
		r.mu.Unlock()
		r.log.Warn("stage generation conflict",
			slog.String("client", k.client.String()),
			slog.String("expected", gen.String()),
			slog.String("found", e.gen.String()),
		)
		return nil, GenerationConflictError{Type: k.client.String()}
	}
	delete(r.stages, k)
	r.mu.Unlock()
	return e, nil
}

func (r *Registry) unconsumed(k stageKey, e *entry) bool {
	if e == nil || e.received {
		return false
	}
	if r.warnOnUnconsumed {
		r.log.Warn("cleared stage entry that was never consumed",
			slog.String("client", k.client.String()),
			slog.String("signature", k.sig.String()),
			slog.String("generation", e.gen.String()),
		)
	}
	return true
}

// consumedBy reports whether client consumed e during construction.
func (e *entry) consumedBy(client any) bool {
	if e == nil {
		return true
	}
	if e.broadcast {
		_, seen := e.consumers[client]
		return seen
	}
	return e.received
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
