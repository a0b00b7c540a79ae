package process

import "kaya/pkg/pcb"

// Key identifies a semaphore. Its value is only compared, never
// interpreted, so any numbering scheme (device register addresses, counters,
// hashes) works as long as distinct semaphores get distinct keys.
type Key uint64

// Info is a snapshot of one process.
type Info struct {
	// PID is the process handle.
	PID pcb.PID
	// Parent is the parent handle, or pcb.NoPID for a root.
	Parent pcb.PID
	// Children lists the children, most recent first.
	Children []pcb.PID
	// State is the derived process state.
	State ProcessState
	// Key is the semaphore the process waits on. Valid when State is StateBlocked.
	Key Key
	// CPU is the saved processor state.
	CPU pcb.State
}
