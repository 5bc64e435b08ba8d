package internal

// flags represents the lifecycle state of an action
type flags uint8

const (
	FlagNone     flags = 0
	FlagStarted  flags = 1 << iota // Action has been started by its list (or by hand)
	FlagPaused                     // Action is skipped by its lane until resumed
	FlagFinished                   // Action completed or was canceled, terminal
	FlagBlocking                   // Action gates every later action of its lane
	FlagCanceled                   // Action finished through Cancel rather than Complete
)

func (f flags) has(flag flags) bool {
	return f&flag != 0
}

func (f *flags) set(flag flags) {
	*f |= flag
}

func (f *flags) clear(flag flags) {
	*f &^= flag
}
