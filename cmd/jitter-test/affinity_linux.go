package main

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pins the calling goroutine's thread to one CPU for the life of the
// process. Keeps the sampler from migrating between cores with
// unsynchronized tick counters.
func pinToCPU(cpu int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
