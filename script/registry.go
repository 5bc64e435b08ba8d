package script

import (
	"fmt"

	"github.com/AnatoleLucet/act"
)

// Factory builds a leaf action from the params of its node.
type Factory func(Params) (act.Action, error)

// Registry maps leaf kinds to their factory.
type Registry map[string]Factory

// Register adds a factory for kind. Composite kinds and already registered kinds are rejected.
func (r Registry) Register(kind string, f Factory) error {
	switch kind {
	case "":
		return ErrMissingKind
	case KindSerial, KindParallel, KindList:
		return fmt.Errorf("%w %q", ErrReservedKind, kind)
	}

	if _, ok := r[kind]; ok {
		return fmt.Errorf("%w %q", ErrDuplicateKind, kind)
	}

	r[kind] = f
	return nil
}

// MustRegister is like Register but panics on error, for registrations fixed at compile time.
func (r Registry) MustRegister(kind string, f Factory) {
	if err := r.Register(kind, f); err != nil {
		panic(err)
	}
}
