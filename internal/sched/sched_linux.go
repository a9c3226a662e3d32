//go:build linux

package sched

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Elevate locks the calling goroutine to its OS thread and gives that thread the UrgentAudio nice
// value. The goroutine must not call runtime.UnlockOSThread afterwards: the thread then exits with
// the goroutine and the raised priority never returns to the scheduler's pool.
//
// Raising priority usually needs CAP_SYS_NICE. The returned error is only worth logging.
func Elevate() error {
	runtime.LockOSThread()
	err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), UrgentAudio)
	return errors.Wrap(err, "sched: setpriority")
}
