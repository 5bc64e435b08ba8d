// Package acttrace records the lifecycle of actions as OpenTelemetry spans.
//
// A span starts when an action starts and ends when it finishes. Spans of children
// are nested under the span of their list when the list is instrumented too.
// Pauses and resumes are recorded as span events, cancellations as an error status.
package acttrace

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/act"
)

// Namer lets an action choose its span name. Otherwise the type name is used.
type Namer interface {
	Name() string
}

type active struct {
	ctx  context.Context
	span trace.Span
}

// Instrumenter subscribes to action lifecycles. Like the actions it observes,
// it is not safe for concurrent use.
type Instrumenter struct {
	tracer trace.Tracer

	// action id -> running span
	spans map[uint64]active

	// action ids already subscribed to
	watched map[uint64]struct{}
}

func New(tracer trace.Tracer) *Instrumenter {
	return &Instrumenter{
		tracer:  tracer,
		spans:   make(map[uint64]active),
		watched: make(map[uint64]struct{}),
	}
}

// Instrument traces a, and every child of a when a is a list, including children attached later.
// ctx parents the span of a when its list is not instrumented.
// Instrumenting the same action twice does nothing.
func (i *Instrumenter) Instrument(ctx context.Context, a act.Action) {
	if a == nil {
		return
	}

	if _, ok := i.watched[a.ID()]; ok {
		return
	}
	i.watched[a.ID()] = struct{}{}

	name := nameOf(a)

	a.OnStarted().Subscribe(func(b *act.Base) { i.start(ctx, b, name) })
	a.OnPaused().Subscribe(func(b *act.Base) { i.event(b, "paused") })
	a.OnResumed().Subscribe(func(b *act.Base) { i.event(b, "resumed") })
	a.OnFinished().Subscribe(i.end)

	if l, ok := a.(*act.List); ok {
		for _, lane := range l.Lanes() {
			for _, child := range l.Actions(lane) {
				i.Instrument(ctx, child)
			}
		}

		l.OnAttached().Subscribe(func(child act.Action) { i.Instrument(ctx, child) })
	}
}

// Active returns the number of spans started and not yet ended.
func (i *Instrumenter) Active() int {
	return len(i.spans)
}

func (i *Instrumenter) start(ctx context.Context, b *act.Base, name string) {
	if _, ok := i.spans[b.ID()]; ok {
		return
	}

	if parent := b.Parent(); parent != nil {
		if p, ok := i.spans[parent.ID()]; ok {
			ctx = p.ctx
		}
	}

	ctx, span := i.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.Int64("act.id", int64(b.ID())),
			attribute.String("act.lane", b.Lane()),
			attribute.String("act.kind", name),
			attribute.Bool("act.blocking", b.Blocking()),
		),
	)

	i.spans[b.ID()] = active{ctx: ctx, span: span}
}

func (i *Instrumenter) event(b *act.Base, name string) {
	if s, ok := i.spans[b.ID()]; ok {
		s.span.AddEvent(name)
	}
}

func (i *Instrumenter) end(b *act.Base) {
	delete(i.watched, b.ID())

	s, ok := i.spans[b.ID()]
	if !ok {
		return
	}
	delete(i.spans, b.ID())

	if b.Canceled() {
		s.span.SetStatus(codes.Error, "canceled")
	} else {
		s.span.SetStatus(codes.Ok, "")
	}

	s.span.End()
}

func nameOf(a act.Action) string {
	if n, ok := a.(Namer); ok {
		return n.Name()
	}

	t := reflect.TypeOf(a)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.Name()
}
