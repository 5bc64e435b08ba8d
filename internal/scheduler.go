package internal

type Scheduler struct {
	// incremented each time a tick completes
	clock int

	// true while a tick runs, nested ticks are dropped
	running bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		clock:   0,
		running: false,
	}
}

func (s *Scheduler) Run(fn func() error) error {
	if s.running {
		return nil
	}

	s.running = true
	defer func() { s.running = false }()

	err := fn()

	s.clock++
	return err
}

func (s *Scheduler) Time() int {
	return s.clock
}
