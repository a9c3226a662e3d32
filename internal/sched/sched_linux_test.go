//go:build linux

package sched

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestElevateRaisesThreadPriority(t *testing.T) {
	type result struct {
		err  error
		prio int
		gerr error
	}
	done := make(chan result)
	go func() {
		// The locked thread dies with this goroutine.
		var r result
		r.err = Elevate()
		r.prio, r.gerr = unix.Getpriority(unix.PRIO_PROCESS, unix.Gettid())
		done <- r
	}()
	r := <-done

	if errors.Is(r.err, unix.EPERM) || errors.Is(r.err, unix.EACCES) {
		t.Skipf("raising priority needs CAP_SYS_NICE: %v", r.err)
	}
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.gerr != nil {
		t.Fatal(r.gerr)
	}
	// The raw syscall reports 20 - nice.
	if nice := 20 - r.prio; nice != UrgentAudio {
		t.Errorf("expected nice %d, got %d", UrgentAudio, nice)
	}
}
