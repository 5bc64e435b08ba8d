//go:build !debug

package internal

// assertAffinity panics if the list is updated from another goroutine than its first Update (debug only).
func (l *List) assertAffinity() {}
