package internal

import (
	"errors"
	"slices"
)

// Handler is a registration handle for an Observable.
// Handles are compared by identity, so the same function wrapped twice
// is registered twice.
type Handler[T any] struct {
	fn func(T)
}

func NewHandler[T any](fn func(T)) *Handler[T] {
	return &Handler[T]{fn: fn}
}

// Observable broadcasts a payload to every registered handler.
// The zero value is ready to use.
type Observable[T any] struct {
	name     string
	handlers []*Handler[T]
}

func NewObservable[T any](name string) *Observable[T] {
	return &Observable[T]{name: name}
}

// Add registers h. Registering a handle that is already present does nothing.
func (o *Observable[T]) Add(h *Handler[T]) {
	if h == nil || slices.Contains(o.handlers, h) {
		return
	}

	o.handlers = append(o.handlers, h)
}

// Remove deregisters h, if present.
func (o *Observable[T]) Remove(h *Handler[T]) {
	i := slices.Index(o.handlers, h)
	if i >= 0 {
		o.handlers = slices.Delete(o.handlers, i, i+1)
	}
}

// Subscribe wraps fn in a new handle, registers it and returns the handle for Remove.
func (o *Observable[T]) Subscribe(fn func(T)) *Handler[T] {
	h := NewHandler(fn)
	o.Add(h)
	return h
}

func (o *Observable[T]) Len() int {
	return len(o.handlers)
}

// Fire calls every handler registered at the time of the call, in registration order.
//
// A panicking handler does not prevent the others from running;
// every panic is returned as a *HandlerError, joined together.
func (o *Observable[T]) Fire(payload T) error {
	if len(o.handlers) == 0 {
		return nil
	}

	// handlers may (un)subscribe while we iterate
	snapshot := slices.Clone(o.handlers)

	var errs []error
	for _, h := range snapshot {
		if err := o.call(h, payload); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (o *Observable[T]) call(h *Handler[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Event: o.name, Value: r}
			logger.Debug("handler panicked", "event", o.name, "panic", r)
		}
	}()

	h.fn(payload)
	return nil
}
