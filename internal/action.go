package internal

import (
	"errors"
	"sync/atomic"
	"weak"
)

// Action is a unit of work driven by the Update calls of its parent List.
//
// Implementations embed *Base, which provides every method but Update's real behavior.
// A leaf action overrides Update (and optionally Start) and calls Complete or Cancel
// itself once done.
type Action interface {
	ID() uint64

	Start() error
	Pause() error
	Resume() error
	Cancel() error
	Complete() error
	Block()
	Unblock()
	Update(dt float64) error

	Started() bool
	Paused() bool
	Finished() bool
	Blocking() bool

	Parent() *List
	Lane() string

	OnStarted() *Observable[*Base]
	OnPaused() *Observable[*Base]
	OnResumed() *Observable[*Base]
	OnCompleted() *Observable[*Base]
	OnCanceled() *Observable[*Base]
	OnFinished() *Observable[*Base]

	base() *Base
}

// incremented for each new action, process wide
var nextID atomic.Uint64

type Base struct {
	id    uint64
	flags flags

	// set once by attach, the list owns us and not the other way around
	attached bool
	parent   weak.Pointer[List]
	parentID uint64
	lane     string

	onStarted   *Observable[*Base]
	onPaused    *Observable[*Base]
	onResumed   *Observable[*Base]
	onCompleted *Observable[*Base]
	onCanceled  *Observable[*Base]
	onFinished  *Observable[*Base]
}

func NewBase() *Base {
	return &Base{
		id: nextID.Add(1),

		onStarted:   NewObservable[*Base]("started"),
		onPaused:    NewObservable[*Base]("paused"),
		onResumed:   NewObservable[*Base]("resumed"),
		onCompleted: NewObservable[*Base]("completed"),
		onCanceled:  NewObservable[*Base]("canceled"),
		onFinished:  NewObservable[*Base]("finished"),
	}
}

func (b *Base) base() *Base { return b }

func (b *Base) ID() uint64 { return b.id }

// Start marks the action as started. It is not guarded: starting twice fires OnStarted twice.
func (b *Base) Start() error {
	b.flags.set(FlagStarted)
	return b.onStarted.Fire(b)
}

func (b *Base) Pause() error {
	b.flags.set(FlagPaused)
	return b.onPaused.Fire(b)
}

func (b *Base) Resume() error {
	b.flags.clear(FlagPaused)
	return b.onResumed.Fire(b)
}

// Cancel finishes the action abnormally. A blocking action stays blocking.
func (b *Base) Cancel() error {
	b.flags.set(FlagFinished | FlagCanceled)

	return errors.Join(
		b.onCanceled.Fire(b),
		b.onFinished.Fire(b),
	)
}

// Complete finishes the action normally and unblocks it.
func (b *Base) Complete() error {
	b.flags.set(FlagFinished)
	b.Unblock()

	return errors.Join(
		b.onCompleted.Fire(b),
		b.onFinished.Fire(b),
	)
}

func (b *Base) Block()   { b.flags.set(FlagBlocking) }
func (b *Base) Unblock() { b.flags.clear(FlagBlocking) }

// Update does nothing, leaf actions override it.
func (b *Base) Update(dt float64) error { return nil }

func (b *Base) Started() bool  { return b.flags.has(FlagStarted) }
func (b *Base) Paused() bool   { return b.flags.has(FlagPaused) }
func (b *Base) Finished() bool { return b.flags.has(FlagFinished) }
func (b *Base) Blocking() bool { return b.flags.has(FlagBlocking) }

// Canceled reports whether the action finished through Cancel.
func (b *Base) Canceled() bool { return b.flags.has(FlagCanceled) }

// Parent returns the list holding this action,
// or nil when unattached or once the list has been garbage collected.
func (b *Base) Parent() *List {
	return b.parent.Value()
}

func (b *Base) Lane() string { return b.lane }

func (b *Base) OnStarted() *Observable[*Base]   { return b.onStarted }
func (b *Base) OnPaused() *Observable[*Base]    { return b.onPaused }
func (b *Base) OnResumed() *Observable[*Base]   { return b.onResumed }
func (b *Base) OnCompleted() *Observable[*Base] { return b.onCompleted }
func (b *Base) OnCanceled() *Observable[*Base]  { return b.onCanceled }
func (b *Base) OnFinished() *Observable[*Base]  { return b.onFinished }

func (b *Base) attach(parent *List, lane string) {
	b.attached = true
	b.parent = weak.Make(parent)
	b.parentID = parent.id
	b.lane = lane
}
