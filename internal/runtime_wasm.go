//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

// DropRuntime resets the global runtime, there is only one goroutine driving it.
func DropRuntime() {
	GetRuntime().Reset()
}
