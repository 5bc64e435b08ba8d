package internal

// Runtime drives a root list for the goroutine it belongs to.
// It is not safe for concurrent use, each goroutine gets its own.
type Runtime struct {
	root      *List
	scheduler *Scheduler
}

func NewRuntime() *Runtime {
	return &Runtime{
		root:      NewList(false),
		scheduler: NewScheduler(),
	}
}

// Root returns the list ticked by Tick. It never auto-completes.
func (r *Runtime) Root() *List {
	return r.root
}

// Tick updates the root list once and advances the frame clock.
// Ticking from a handler running inside a tick does nothing.
func (r *Runtime) Tick(dt float64) error {
	return r.scheduler.Run(func() error {
		return r.root.Update(dt)
	})
}

// Frame returns the number of ticks run so far.
func (r *Runtime) Frame() int {
	return r.scheduler.Time()
}

// Reset replaces the root list, dropping everything attached to the previous one.
func (r *Runtime) Reset() {
	r.root = NewList(false)
	r.scheduler = NewScheduler()
}
