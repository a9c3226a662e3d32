//go:build !linux

package sched

import "runtime"

// Elevate locks the calling goroutine to its OS thread. Thread priorities aren't adjusted on this
// platform.
func Elevate() error {
	runtime.LockOSThread()
	return nil
}
