package di

import (
	"log/slog"
	"time"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for stage diagnostics. A nil logger keeps
// the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithLocator sets the ambient service locator consulted by TryGet when the
// phase allows it.
func WithLocator(l Locator) Option {
	return func(r *Registry) { r.locator = l }
}

// WithAutoResolver sets the structural resolver consulted by TryGet in
// edit-time phases.
func WithAutoResolver(a AutoResolver) Option {
	return func(r *Registry) { r.auto = a }
}

// WithWarnOnOverwrite logs a warning when Set replaces an entry that was never
// consumed.
func WithWarnOnOverwrite(on bool) Option {
	return func(r *Registry) { r.warnOnOverwrite = on }
}

// WithWarnOnUnconsumed logs a warning when Clear removes an entry that was
// never consumed.
func WithWarnOnUnconsumed(on bool) Option {
	return func(r *Registry) { r.warnOnUnconsumed = on }
}

// WithMaxConcurrency bounds the number of clones InstantiateBatch runs at once.
// Zero or less means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(r *Registry) { r.maxConcurrency = n }
}

// WithClock overrides the time source used for EntryInfo.StagedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}
