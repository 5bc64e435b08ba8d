package internal

import "fmt"

// Serial builds an auto-completing list running actions one at a time, in order.
// Every action is blocked, so each one gates the next within the lane.
func Serial(actions []Action, lane ...string) (*List, error) {
	return compose(actions, laneName(lane), Action.Block)
}

// Parallel builds an auto-completing list running all actions at once.
// Every action is unblocked, so none of them gates another.
func Parallel(actions []Action, lane ...string) (*List, error) {
	return compose(actions, laneName(lane), Action.Unblock)
}

func compose(actions []Action, lane string, mark func(Action)) (*List, error) {
	l := NewList(true)

	// nothing is marked nor attached unless every action can be
	seen := make(map[*Base]struct{}, len(actions))
	for _, a := range actions {
		if err := l.validate(a); err != nil {
			return nil, err
		}

		if _, ok := seen[a.base()]; ok {
			return nil, fmt.Errorf("%w: action %d is listed twice", ErrAlreadyAttached, a.ID())
		}
		seen[a.base()] = struct{}{}
	}

	for _, a := range actions {
		mark(a)

		if err := l.Append(a, lane); err != nil {
			return nil, err
		}
	}

	return l, nil
}
