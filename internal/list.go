package internal

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultLane is the lane used when none is named. It always exists.
const DefaultLane = "default"

var _ Action = (*List)(nil)

// List is an Action owning named lanes of child actions.
//
// Each Update walks every lane in registration order: children are started,
// updated, and removed once finished. A blocking child stops its lane for the
// rest of the tick, lanes never wait on each other.
type List struct {
	*Base

	// lane name -> children, in lane order
	lanes map[string][]Action
	// lane names in registration order
	order []string

	autoComplete bool
	empty        bool

	// true while Update runs, guards against re-entrant ticks from handlers
	updating bool

	// goroutine of the first Update, only checked by debug builds
	owner int64
	bound bool

	onAttached *Observable[Action]
}

func NewList(autoComplete bool) *List {
	return &List{
		Base: NewBase(),

		lanes: map[string][]Action{DefaultLane: nil},
		order: []string{DefaultLane},

		autoComplete: autoComplete,
		empty:        true,

		onAttached: NewObservable[Action]("attached"),
	}
}

// Append attaches a at the tail of the given lane ("default" when omitted).
func (l *List) Append(a Action, lane ...string) error {
	return l.insert(a, laneName(lane), false)
}

// Prepend attaches a at the head of the given lane ("default" when omitted).
func (l *List) Prepend(a Action, lane ...string) error {
	return l.insert(a, laneName(lane), true)
}

func (l *List) insert(a Action, lane string, head bool) error {
	if err := l.validate(a); err != nil {
		return err
	}

	if _, ok := l.lanes[lane]; !ok {
		l.order = append(l.order, lane)
	}

	if head {
		l.lanes[lane] = slices.Insert(l.lanes[lane], 0, a)
	} else {
		l.lanes[lane] = append(l.lanes[lane], a)
	}

	a.base().attach(l, lane)
	l.empty = false

	return l.onAttached.Fire(a)
}

func (l *List) validate(a Action) error {
	if a == nil || a.base() == nil {
		return ErrNilAction
	}

	b := a.base()

	for ancestor := l; ancestor != nil; ancestor = ancestor.Parent() {
		if ancestor.Base == b {
			return fmt.Errorf("%w: list %d", ErrSelfAttach, b.id)
		}
	}

	if b.attached {
		return fmt.Errorf("%w: action %d is in lane %q of list %d", ErrAlreadyAttached, b.id, b.lane, b.parentID)
	}

	return nil
}

// Update runs one tick over every lane.
//
// It does nothing while the list is paused, finished, or already updating.
// Errors raised by children do not stop the tick, they are joined and returned once
// every lane has been processed.
func (l *List) Update(dt float64) error {
	if l.Paused() || l.Finished() || l.updating {
		return nil
	}

	l.assertAffinity()

	l.updating = true
	defer func() { l.updating = false }()

	var errs []error

	// lanes created by handlers during this tick wait for the next one
	for _, lane := range slices.Clone(l.order) {
		errs = append(errs, l.updateLane(lane, dt)...)
	}

	if l.Len() == 0 {
		l.empty = true

		if l.autoComplete {
			logger.Debug("list auto-completed", "list", l.id)
			errs = append(errs, l.Complete())
		}
	}

	return errors.Join(errs...)
}

func (l *List) updateLane(lane string, dt float64) []error {
	var errs []error

	// actions attached during the walk are picked up next tick
	for _, a := range slices.Clone(l.lanes[lane]) {
		if !a.Paused() && !a.Finished() {
			if !a.Started() {
				logger.Debug("action started", "list", l.id, "lane", lane, "action", a.ID())

				if err := a.Start(); err != nil {
					errs = append(errs, laneError(lane, a, err))
				}
			}

			// an action may finish while starting
			if !a.Finished() {
				if err := a.Update(dt); err != nil {
					errs = append(errs, laneError(lane, a, err))
				}
			}
		}

		if a.Finished() {
			continue
		}

		if a.Blocking() {
			logger.Debug("lane blocked", "list", l.id, "lane", lane, "action", a.ID())
			break
		}
	}

	l.sweep(lane)

	return errs
}

// sweep drops finished actions from the lane, and the lane itself once empty
// unless it is the default one.
func (l *List) sweep(lane string) {
	actions, ok := l.lanes[lane]
	if !ok {
		return
	}

	actions = slices.DeleteFunc(actions, Action.Finished)

	if len(actions) == 0 && lane != DefaultLane {
		delete(l.lanes, lane)
		l.order = slices.DeleteFunc(l.order, func(name string) bool { return name == lane })
		return
	}

	l.lanes[lane] = actions
}

func (l *List) PauseLane(lane string) error   { return l.eachInLane(lane, Action.Pause) }
func (l *List) ResumeLane(lane string) error  { return l.eachInLane(lane, Action.Resume) }
func (l *List) CancelLane(lane string) error  { return l.eachInLane(lane, Action.Cancel) }
func (l *List) BlockLane(lane string) error   { return l.eachInLane(lane, block) }
func (l *List) UnblockLane(lane string) error { return l.eachInLane(lane, unblock) }

func (l *List) eachInLane(lane string, fn func(Action) error) error {
	var errs []error
	for _, a := range slices.Clone(l.lanes[lane]) {
		if err := fn(a); err != nil {
			errs = append(errs, laneError(lane, a, err))
		}
	}

	return errors.Join(errs...)
}

// Lanes returns the lane names in registration order.
func (l *List) Lanes() []string {
	return slices.Clone(l.order)
}

// Actions returns a copy of the given lane.
func (l *List) Actions(lane string) []Action {
	return slices.Clone(l.lanes[lane])
}

// Len returns the number of actions across all lanes, finished ones included until swept.
func (l *List) Len() int {
	n := 0
	for _, actions := range l.lanes {
		n += len(actions)
	}

	return n
}

// Empty reports whether the list held no action after its last sweep (or since creation).
func (l *List) Empty() bool { return l.empty }

func (l *List) AutoComplete() bool { return l.autoComplete }

// OnAttached fires with each action appended or prepended to the list.
func (l *List) OnAttached() *Observable[Action] { return l.onAttached }

func laneName(lane []string) string {
	if len(lane) == 0 || lane[0] == "" {
		return DefaultLane
	}

	return lane[0]
}

func laneError(lane string, a Action, err error) error {
	return fmt.Errorf("lane %q: action %d: %w", lane, a.ID(), err)
}

func block(a Action) error {
	a.Block()
	return nil
}

func unblock(a Action) error {
	a.Unblock()
	return nil
}
