package di_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/sghaida/odistage/di"
)

type enemyArgs = di.Tuple2[int, string]

// enemy accepts arguments through Init but never reads the stage itself.
type enemy struct {
	hp        int
	label     string
	inits     int
	destroyed bool
	custom    bool
}

func (e *enemy) Init(a enemyArgs) error {
	e.inits++
	e.hp = a.V1
	e.label = a.V2
	return nil
}

func (e *enemy) IsDestroyed() bool   { return e.destroyed }
func (e *enemy) HasCustomArgs() bool { return e.custom }

func cloneEnemy(o *enemy) (*enemy, error) {
	c := *o
	c.inits = 0
	return &c, nil
}

// turret reads the stage while it is constructed, like an awake hook.
type turret struct {
	reg   *di.Registry
	hp    int
	inits int
}

func (t *turret) Init(hp int) error {
	t.inits++
	t.hp = hp
	return nil
}

func (t *turret) awake() {
	if hp, ok, _ := di.TryGet[int](t.reg, di.PhaseStagedOnly, t); ok {
		t.inits++
		t.hp = hp
	}
}

func cloneTurret(o *turret) (*turret, error) {
	c := &turret{reg: o.reg}
	c.awake()
	return c, nil
}

// crate has no Init and never reads the stage.
type crate struct{ size int }

func cloneCrate(o *crate) (*crate, error) { return &crate{size: o.size}, nil }

// marker is a value-type client that reads the stage while it is built.
type marker struct {
	reg *di.Registry
	id  int
}

func (m marker) Init(int) error { return nil }

func cloneMarker(o marker) (marker, error) {
	c := marker{reg: o.reg}
	if id, ok, _ := di.TryGet[int](o.reg, di.PhaseStagedOnly, c); ok {
		c.id = id
	}
	return c, nil
}

// guarded validates its arguments.
type guarded struct {
	max   int
	value int
}

var errTooLarge = errors.New("too large")

func (g *guarded) Validate(v int) error {
	if v > g.max {
		return errTooLarge
	}
	return nil
}

func (g *guarded) Init(v int) error {
	g.value = v
	return nil
}

// clock is an arbitrary service type used with the locator.
type clock struct{ name string }

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLoggedRegistry(opts ...di.Option) (*di.Registry, *syncBuffer) {
	buf := &syncBuffer{}
	l := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return di.New(append([]di.Option{di.WithLogger(l)}, opts...)...), buf
}

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }
