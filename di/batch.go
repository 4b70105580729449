package di

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchRequest describes an InstantiateBatch call.
type BatchRequest[C, T any] struct {
	Original C
	Count    int
	Values   T
	Clone    CloneFunc[C]

	// OnComplete, if set, runs once on the goroutine that completes the batch,
	// after reconciliation and before Done is closed.
	OnComplete func(instances []C, err error)
}

// Batch is the handle for an in-flight InstantiateBatch.
type Batch[C any] struct {
	done      chan struct{}
	instances []C
	err       error
}

// Done is closed when the batch has completed.
func (b *Batch[C]) Done() <-chan struct{} { return b.done }

// Wait blocks until the batch completes and returns the clones in request
// order. On error the slice may be partially filled.
func (b *Batch[C]) Wait() ([]C, error) {
	<-b.done
	return b.instances, b.err
}

func failedBatch[C any](err error, onComplete func([]C, error)) *Batch[C] {
	b := &Batch[C]{done: make(chan struct{}), err: err}
	if onComplete != nil {
		onComplete(nil, err)
	}
	close(b.done)
	return b
}

// InstantiateBatch clones req.Original req.Count times without blocking the
// caller. One broadcast entry is staged for all clones: each distinct clone
// may consume it once during construction. When every clone has finished, the
// entry is removed and each clone that did not consume it is passed to Init,
// exactly as Instantiate does for a single clone.
//
// Consumption is tracked per clone pointer, so the original's concrete type
// must be a pointer and Clone must return a distinct instance on every call.
// Other client types are rejected; use Instantiate once per clone for them.
//
// Clones run concurrently, bounded by WithMaxConcurrency. Cancelling ctx stops
// clones that have not started yet.
func InstantiateBatch[C, T any](ctx context.Context, r *Registry, req BatchRequest[C, T]) *Batch[C] {
	if r == nil {
		return failedBatch[C](InvalidArgumentError{Param: "registry"}, req.OnComplete)
	}
	if req.Clone == nil {
		return failedBatch[C](InvalidArgumentError{Param: "clone"}, req.OnComplete)
	}
	if req.Count <= 0 {
		return failedBatch[C](InvalidArgumentError{Param: "count"}, req.OnComplete)
	}
	ct, err := checkOriginal[C, T](r, req.Original)
	if err != nil {
		return failedBatch[C](err, req.OnComplete)
	}
	if ct.Kind() != reflect.Pointer {
		r.log.Warn("batch rejected for non-pointer client", slog.String("client", ct.String()))
		return failedBatch[C](InvalidArgumentError{
			Param:  "original",
			Reason: "batch client " + ct.String() + " is not a pointer type",
		}, req.OnComplete)
	}
	if err := validate(r, ct, req.Original, req.Values); err != nil {
		return failedBatch[C](err, req.OnComplete)
	}

	k := stageKey{client: ct, sig: reflect.TypeFor[T]()}
	gen := r.put(k, req.Values, true)

	b := &Batch[C]{
		done:      make(chan struct{}),
		instances: make([]C, req.Count),
	}
	go func() {
		defer close(b.done)
		b.err = runBatch(ctx, r, k, gen, req, b.instances)
		if req.OnComplete != nil {
			req.OnComplete(b.instances, b.err)
		}
	}()
	return b
}

func runBatch[C, T any](ctx context.Context, r *Registry, k stageKey, gen Generation, req BatchRequest[C, T], out []C) error {
	settled := false
	defer func() {
		if !settled {
			_, _ = r.remove(k, &gen)
		}
	}()

	var mu sync.Mutex
	seen := make(map[any]struct{}, len(out))

	g, gctx := errgroup.WithContext(ctx)
	if r.maxConcurrency > 0 {
		g.SetLimit(r.maxConcurrency)
	}
	for i := range out {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := req.Clone(req.Original)
			if err != nil {
				return err
			}
			if isNil(any(c)) {
				return InvalidArgumentError{Param: "clone result"}
			}
			if reflect.TypeOf(any(c)).Kind() != reflect.Pointer {
				return InvalidArgumentError{Param: "clone result", Reason: "not a pointer"}
			}
			mu.Lock()
			_, dup := seen[any(c)]
			seen[any(c)] = struct{}{}
			mu.Unlock()
			if dup {
				return InvalidArgumentError{Param: "clone result", Reason: "instance returned more than once"}
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e, err := r.remove(k, &gen)
	settled = true
	if err != nil {
		return err
	}

	var errs []error
	delivered := 0
	for _, c := range out {
		if e.consumedBy(any(c)) {
			continue
		}
		if err := deliver(r, c, req.Values); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	r.log.Debug("batch reconciled",
		slog.String("client", k.client.String()),
		slog.Int("count", len(out)),
		slog.Int("delivered_via_init", delivered),
		slog.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}
