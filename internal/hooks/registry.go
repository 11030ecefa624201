// Package hooks provides named lifecycle extension points for the build.
// Callbacks registered against an event are invoked in registration order
// when the event fires; a callback error stops the remaining callbacks for
// that event and is returned to the firing stage.
package hooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/soasis/docgen/internal/logfields"
)

// Event names the well-known extension points.
type Event string

const (
	// BuilderInited fires once the configuration surface is loaded and the
	// output structure exists, before any page rendering.
	BuilderInited Event = "builder-inited"
	// BuildFinished fires after the last stage completes, regardless of
	// outcome.
	BuildFinished Event = "build-finished"
)

// Func is a lifecycle callback. The Build argument carries mutable per-build
// state shared with the pipeline.
type Func func(ctx context.Context, b *Build) error

// Build is the per-build payload passed to callbacks.
type Build struct {
	Project string
	Release string
	// ReferenceProjects is the live reference-XML mapping from the
	// configuration surface; callbacks may record entries into it.
	ReferenceProjects map[string]string
}

// Registry holds callbacks per extension point. It is not safe for concurrent
// registration; all Connect calls happen during build setup on one goroutine.
type Registry struct {
	callbacks map[Event][]Func
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[Event][]Func)}
}

// Connect registers a callback against an extension point.
func (r *Registry) Connect(event Event, fn Func) {
	if fn == nil {
		return
	}
	r.callbacks[event] = append(r.callbacks[event], fn)
}

// Count returns the number of callbacks attached to an extension point.
func (r *Registry) Count(event Event) int {
	return len(r.callbacks[event])
}

// Fire invokes all callbacks registered for the event in order.
func (r *Registry) Fire(ctx context.Context, event Event, b *Build) error {
	cbs := r.callbacks[event]
	if len(cbs) == 0 {
		return nil
	}
	slog.Debug("Firing extension point", logfields.Event(string(event)), slog.Int("callbacks", len(cbs)))
	for _, fn := range cbs {
		t0 := time.Now()
		if err := fn(ctx, b); err != nil {
			return err
		}
		slog.Debug("Hook completed", logfields.Event(string(event)),
			logfields.DurationMS(float64(time.Since(t0).Milliseconds())))
	}
	return nil
}
