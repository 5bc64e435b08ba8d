//go:build debug

package internal

import (
	"fmt"

	"github.com/petermattis/goid"
)

// assertAffinity panics if the list is updated from another goroutine than its first Update (debug only).
func (l *List) assertAffinity() {
	gid := goid.Get()

	if !l.bound {
		l.owner = gid
		l.bound = true
		return
	}

	if l.owner != gid {
		panic(
			fmt.Sprintf(
				"act: contract violation: list %d updated from goroutine %d but is driven by goroutine %d; "+
					"lists are not safe for concurrent use",
				l.id,
				gid,
				l.owner,
			),
		)
	}
}
