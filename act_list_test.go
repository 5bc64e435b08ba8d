package act

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	t.Run("starts then updates", func(t *testing.T) {
		log := []string{}

		list := NewList(false)
		list.Append(newRecorder("a", &log))

		list.Update(0.5)
		list.Update(0.25)

		assert.Equal(t, []string{
			"a started",
			"a update 0.5",
			"a update 0.25",
		}, log)
	})

	t.Run("blocking action gates its lane", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		b := newRecorder("b", &log)
		c := newRecorder("c", &log)

		list, err := Serial([]Action{a, b, c})
		require.NoError(t, err)

		list.Update(1)
		assert.True(t, a.Started())
		assert.False(t, b.Started())
		assert.False(t, c.Started())

		a.Complete()
		list.Update(1)
		assert.True(t, b.Started())
		assert.False(t, c.Started())

		list.Update(1)
		assert.False(t, c.Started())

		b.Complete()
		list.Update(1)
		assert.True(t, c.Started())

		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"a completed",
			"b started",
			"b update 1",
			"b update 1",
			"b completed",
			"c started",
			"c update 1",
		}, log)
	})

	t.Run("unblocked actions all start", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		b := newRecorder("b", &log)
		c := newRecorder("c", &log)
		b.update = func(r *recorder, dt float64) error { return r.Complete() }

		list, err := Parallel([]Action{a, b, c})
		require.NoError(t, err)

		list.Update(1)

		assert.True(t, a.Started())
		assert.True(t, b.Started())
		assert.True(t, c.Started())
		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"b started",
			"b update 1",
			"b completed",
			"c started",
			"c update 1",
		}, log)
	})

	t.Run("lanes are independent", func(t *testing.T) {
		log := []string{}

		walk := newRecorder("walk", &log)
		walk.Block()
		queued := newRecorder("queued", &log)
		sparkle := newRecorder("sparkle", &log)

		list := NewList(false)
		list.Append(walk)
		list.Append(queued)
		list.Append(sparkle, "fx")

		list.Update(1)

		assert.False(t, queued.Started())
		assert.True(t, sparkle.Started())
		assert.Equal(t, []string{DefaultLane, "fx"}, list.Lanes())
		assert.Equal(t, "fx", sparkle.Lane())
		assert.Same(t, list, sparkle.Parent())
	})

	t.Run("finished actions do not block", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		a.Block()
		a.update = func(r *recorder, dt float64) error { return r.Cancel() }
		b := newRecorder("b", &log)

		list := NewList(false)
		list.Append(a)
		list.Append(b)

		list.Update(1)

		// canceled actions stay blocking but are finished
		assert.True(t, a.Blocking())
		assert.True(t, b.Started())
	})

	t.Run("paused actions are skipped but still block", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		a.Block()
		a.Pause()
		b := newRecorder("b", &log)

		list := NewList(false)
		list.Append(a)
		list.Append(b)

		list.Update(1)
		assert.False(t, a.Started())
		assert.False(t, b.Started())

		a.Unblock()
		list.Update(1)
		assert.False(t, a.Started())
		assert.True(t, b.Started())

		a.Resume()
		list.Update(1)
		assert.True(t, a.Started())
	})

	t.Run("action finishing on start is not updated", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		a.OnStarted().Subscribe(func(b *Base) { b.Complete() })

		list := NewList(false)
		list.Append(a)
		list.Update(1)
		list.Update(1)

		assert.Equal(t, []string{"a started", "a completed"}, log)
	})

	t.Run("finished actions are pruned and never updated again", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		b := newRecorder("b", &log)

		list := NewList(false)
		list.Append(a)
		list.Append(b)

		list.Update(1)
		a.Cancel()
		assert.Equal(t, 2, list.Len())

		list.Update(2)
		assert.Equal(t, []Action{b}, list.Actions(DefaultLane))

		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"b started",
			"b update 1",
			"a canceled",
			"b update 2",
		}, log)
	})

	t.Run("prepend puts actions first", func(t *testing.T) {
		log := []string{}

		list := NewList(false)
		list.Append(newRecorder("b", &log))
		list.Prepend(newRecorder("a", &log))
		list.Append(newRecorder("c", &log))

		list.Update(1)

		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"b started",
			"b update 1",
			"c started",
			"c update 1",
		}, log)
	})

	t.Run("lanes run in registration order", func(t *testing.T) {
		log := []string{}

		list := NewList(false)
		list.Append(newRecorder("ui", &log), "ui")
		list.Append(newRecorder("fx", &log), "fx")
		list.Append(newRecorder("main", &log))

		list.Update(1)

		assert.Equal(t, []string{DefaultLane, "ui", "fx"}, list.Lanes())
		assert.Equal(t, []string{
			"main started",
			"main update 1",
			"ui started",
			"ui update 1",
			"fx started",
			"fx update 1",
		}, log)
	})

	t.Run("emptied lanes are dropped except default", func(t *testing.T) {
		log := []string{}

		fx := newRecorder("fx", &log)
		fx.update = func(r *recorder, dt float64) error { return r.Complete() }

		list := NewList(false)
		list.Append(fx, "fx")
		assert.Equal(t, []string{DefaultLane, "fx"}, list.Lanes())

		list.Update(1)
		assert.Equal(t, []string{DefaultLane}, list.Lanes())
		assert.Empty(t, list.Actions("fx"))
	})

	t.Run("actions attached during a tick wait for the next one", func(t *testing.T) {
		log := []string{}

		list := NewList(false)
		a := newRecorder("a", &log)
		a.OnStarted().Subscribe(func(*Base) {
			list.Append(newRecorder("late", &log))
			list.Append(newRecorder("late fx", &log), "fx")
		})
		list.Append(a)

		list.Update(1)
		list.Update(2)

		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"a update 2",
			"late started",
			"late update 2",
			"late fx started",
			"late fx update 2",
		}, log)
	})

	t.Run("auto-completes once empty", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		a.update = func(r *recorder, dt float64) error { return r.Complete() }

		list := NewList(true)
		list.OnCompleted().Subscribe(func(*Base) { log = append(log, "list completed") })
		list.OnFinished().Subscribe(func(*Base) { log = append(log, "list finished") })
		list.Append(a)
		assert.False(t, list.Empty())

		list.Update(1)
		list.Update(1)

		assert.True(t, list.Empty())
		assert.True(t, list.Finished())
		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"a completed",
			"list completed",
			"list finished",
		}, log)
	})

	t.Run("empty auto-complete list completes on first tick", func(t *testing.T) {
		log := []string{}

		list := NewList(true)
		list.OnCompleted().Subscribe(func(*Base) { log = append(log, "completed") })
		list.OnFinished().Subscribe(func(*Base) { log = append(log, "finished") })
		assert.True(t, list.Empty())

		list.Update(1)
		list.Update(1)

		assert.Equal(t, []string{"completed", "finished"}, log)
	})

	t.Run("list without auto-complete stays alive", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		a.update = func(r *recorder, dt float64) error { return r.Complete() }

		list := NewList(false)
		list.OnFinished().Subscribe(func(*Base) { log = append(log, "list finished") })
		list.Append(a)

		list.Update(1)
		list.Update(1)

		assert.True(t, list.Empty())
		assert.False(t, list.Finished())
		assert.Equal(t, []string{"a started", "a update 1", "a completed"}, log)
	})

	t.Run("paused or finished list does nothing", func(t *testing.T) {
		log := []string{}

		paused := NewList(false)
		paused.Append(newRecorder("paused", &log))
		paused.Pause()
		paused.Update(1)

		finished := NewList(false)
		finished.Append(newRecorder("finished", &log))
		finished.Cancel()
		finished.Update(1)

		assert.Empty(t, log)

		paused.Resume()
		paused.Update(1)
		assert.Equal(t, []string{"paused started", "paused update 1"}, log)
	})

	t.Run("nested lists", func(t *testing.T) {
		log := []string{}

		done := func(r *recorder, dt float64) error { return r.Complete() }

		a := newRecorder("a", &log)
		a.update = done
		b := newRecorder("b", &log)
		b.update = done
		c := newRecorder("c", &log)
		c.update = done

		inner, err := Parallel([]Action{b, c})
		require.NoError(t, err)

		outer, err := Serial([]Action{a, inner})
		require.NoError(t, err)

		root := NewList(false)
		root.Append(outer)

		// everything finishes within the same tick, from the inside out
		root.Update(1)
		assert.True(t, inner.Finished())
		assert.True(t, outer.Finished())
		assert.True(t, root.Empty())
		assert.False(t, root.Finished())

		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"a completed",
			"b started",
			"b update 1",
			"b completed",
			"c started",
			"c update 1",
			"c completed",
		}, log)
	})

	t.Run("re-entrant update is ignored", func(t *testing.T) {
		log := []string{}

		list := NewList(false)
		a := newRecorder("a", &log)
		a.update = func(r *recorder, dt float64) error {
			return list.Update(dt)
		}
		list.Append(a)

		assert.NoError(t, list.Update(1))
		assert.Equal(t, []string{"a started", "a update 1"}, log)
	})

	t.Run("errors are collected without stopping the tick", func(t *testing.T) {
		log := []string{}
		oops := errors.New("oops")

		a := newRecorder("a", &log)
		a.OnStarted().Subscribe(func(*Base) { panic("boom") })
		b := newRecorder("b", &log)
		b.update = func(r *recorder, dt float64) error { return oops }
		c := newRecorder("c", &log)

		list := NewList(false)
		list.Append(a)
		list.Append(b)
		list.Append(c, "fx")

		err := list.Update(1)

		var handlerErr *HandlerError
		assert.ErrorAs(t, err, &handlerErr)
		assert.Equal(t, "started", handlerErr.Event)
		assert.ErrorIs(t, err, oops)
		assert.ErrorContains(t, err, `lane "default"`)
		assert.True(t, a.Started())
		assert.True(t, c.Started())
		assert.Equal(t, []string{
			"a started",
			"a update 1",
			"b started",
			"b update 1",
			"c started",
			"c update 1",
		}, log)
	})

	t.Run("bulk lane operations", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)
		b := newRecorder("b", &log)
		other := newRecorder("other", &log)

		list := NewList(false)
		list.Append(a, "fx")
		list.Append(b, "fx")
		list.Append(other)

		assert.NoError(t, list.BlockLane("fx"))
		assert.True(t, a.Blocking())
		assert.True(t, b.Blocking())
		assert.False(t, other.Blocking())

		assert.NoError(t, list.UnblockLane("fx"))
		assert.False(t, a.Blocking())

		assert.NoError(t, list.PauseLane("fx"))
		assert.True(t, a.Paused())
		assert.True(t, b.Paused())

		assert.NoError(t, list.ResumeLane("fx"))
		assert.False(t, b.Paused())

		assert.NoError(t, list.CancelLane("fx"))
		assert.True(t, a.Finished())
		assert.True(t, b.Finished())
		assert.False(t, other.Finished())

		assert.NoError(t, list.CancelLane("missing"))
		assert.Equal(t, []string{"a canceled", "b canceled"}, log)
	})

	t.Run("rejects double attachment", func(t *testing.T) {
		log := []string{}

		a := newRecorder("a", &log)

		first := NewList(false)
		second := NewList(false)
		require.NoError(t, first.Append(a, "fx"))

		assert.ErrorIs(t, second.Append(a), ErrAlreadyAttached)
		assert.ErrorIs(t, first.Prepend(a), ErrAlreadyAttached)

		assert.Same(t, first, a.Parent())
		assert.Equal(t, "fx", a.Lane())
		assert.Zero(t, second.Len())
		assert.True(t, second.Empty())
		assert.Equal(t, 1, first.Len())
	})

	t.Run("rejects cycles", func(t *testing.T) {
		outer := NewList(false)
		inner := NewList(false)
		require.NoError(t, outer.Append(inner))

		assert.ErrorIs(t, outer.Append(outer), ErrSelfAttach)
		assert.ErrorIs(t, inner.Append(outer), ErrSelfAttach)
	})

	t.Run("rejects nil actions", func(t *testing.T) {
		list := NewList(false)

		assert.ErrorIs(t, list.Append(nil), ErrNilAction)
		assert.ErrorIs(t, list.Append(&recorder{}), ErrNilAction)
	})

	t.Run("notifies attachments", func(t *testing.T) {
		var attached []Action

		list := NewList(false)
		list.OnAttached().Subscribe(func(a Action) { attached = append(attached, a) })

		a := NewBase()
		b := NewBase()
		list.Append(a)
		list.Prepend(b, "fx")

		assert.Equal(t, []Action{a, b}, attached)
	})

	t.Run("parent does not keep the list alive", func(t *testing.T) {
		a := NewBase()

		func() {
			list := NewList(false)
			list.Append(a)
			assert.NotNil(t, a.Parent())
		}()

		runtime.GC()
		runtime.GC()

		assert.Nil(t, a.Parent())
		assert.Equal(t, DefaultLane, a.Lane())
	})
}
