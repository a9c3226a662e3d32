// Package sched raises the scheduling priority of the goroutine running the audio loop.
package sched

// UrgentAudio is the nice value audio threads ask for, matching Android's THREAD_PRIORITY_URGENT_AUDIO.
const UrgentAudio = -19
