package process

import (
	"errors"
	"fmt"
)

// State transition errors.
var (
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ProcessState represents the state of a process in the nucleus.
type ProcessState string

const (
	// StateFree means the handle does not refer to a live process.
	StateFree ProcessState = "free"
	// StateReady indicates the process is on the ready queue.
	StateReady ProcessState = "ready"
	// StateRunning indicates the process is the one currently dispatched.
	StateRunning ProcessState = "running"
	// StateBlocked indicates the process waits on a semaphore.
	StateBlocked ProcessState = "blocked"
)

// StateTransition represents a valid state transition.
type StateTransition struct {
	From ProcessState
	To   ProcessState
}

// ValidTransitions defines all valid state transitions.
var ValidTransitions = []StateTransition{
	// Create: Free -> Ready
	{From: StateFree, To: StateReady},
	// Dispatch: Ready -> Running
	{From: StateReady, To: StateRunning},
	// Preempt: Running -> Ready
	{From: StateRunning, To: StateReady},
	// P on a busy semaphore: Running -> Blocked
	{From: StateRunning, To: StateBlocked},
	// V by another process: Blocked -> Ready
	{From: StateBlocked, To: StateReady},
	// Terminate from any live state
	{From: StateReady, To: StateFree},
	{From: StateRunning, To: StateFree},
	{From: StateBlocked, To: StateFree},
}

// IsValidTransition checks if a state transition is valid.
func IsValidTransition(from, to ProcessState) bool {
	for _, t := range ValidTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to ProcessState) error {
	if !IsValidTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
