// Package act schedules cooperative, frame-driven actions.
//
// Actions progress through explicit Update(dt) calls instead of real time.
// A List is itself an Action holding named lanes of children: within a lane,
// a blocking action gates everything queued behind it, while lanes run side by side.
// Serial and Parallel build the two common shapes from a flat set of actions.
//
// Nothing here is safe for concurrent use: drive a tree from a single goroutine,
// typically by calling Tick once per frame.
package act

import (
	"log/slog"

	"github.com/AnatoleLucet/act/internal"
)

// Action is the unit of work scheduled by a List.
//
// Implement one by embedding *Base and overriding Update (and Start if needed):
//
//	type Wait struct {
//		*act.Base
//		left float64
//	}
//
//	func (w *Wait) Update(dt float64) error {
//		if w.left -= dt; w.left <= 0 {
//			return w.Complete()
//		}
//		return nil
//	}
type Action = internal.Action

// Base carries the state and lifecycle events of an action.
type Base = internal.Base

// List is an Action scheduling named lanes of child actions.
type List = internal.List

// Observable broadcasts lifecycle events to handlers.
type Observable[T any] = internal.Observable[T]

// Handler is a registration handle for an Observable, compared by identity.
type Handler[T any] = internal.Handler[T]

// HandlerError reports a handler that panicked while an event was fired.
type HandlerError = internal.HandlerError

// DefaultLane is the lane used when none is named.
const DefaultLane = internal.DefaultLane

var (
	// ErrNilAction is returned when attaching a nil action (or one without a Base).
	ErrNilAction = internal.ErrNilAction

	// ErrSelfAttach is returned when attaching a list to itself or to one of its descendants.
	ErrSelfAttach = internal.ErrSelfAttach

	// ErrAlreadyAttached is returned when attaching an action that already belongs to a list.
	ErrAlreadyAttached = internal.ErrAlreadyAttached
)

// NewBase creates the state of a new idle action with a fresh id.
func NewBase() *Base {
	return internal.NewBase()
}

// NewList creates an empty list.
// An auto-completing list completes itself on the first tick it holds no action.
func NewList(autoComplete bool) *List {
	return internal.NewList(autoComplete)
}

// NewHandler wraps fn into a handle that can be added to and removed from an Observable.
func NewHandler[T any](fn func(T)) *Handler[T] {
	return internal.NewHandler(fn)
}

// Serial builds an auto-completing list running actions one after the other in the given lane.
func Serial(actions []Action, lane ...string) (*List, error) {
	return internal.Serial(actions, lane...)
}

// Parallel builds an auto-completing list running all actions together in the given lane.
func Parallel(actions []Action, lane ...string) (*List, error) {
	return internal.Parallel(actions, lane...)
}

// Root returns the root list of the calling goroutine.
func Root() *List {
	return internal.GetRuntime().Root()
}

// Tick updates the root list of the calling goroutine and advances its frame clock.
func Tick(dt float64) error {
	return internal.GetRuntime().Tick(dt)
}

// Frame returns how many ticks the calling goroutine has run.
func Frame() int {
	return internal.GetRuntime().Frame()
}

// Reset drops the root list and frame clock of the calling goroutine.
func Reset() {
	internal.DropRuntime()
}

// SetLogger sets the logger used for debug traces of the scheduler.
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}
