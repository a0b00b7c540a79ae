package process

import (
	"errors"

	"kaya/pkg/pcb"
)

// ErrNoReady is returned when there is nothing to dispatch.
var ErrNoReady = errors.New("no ready process")

// Scheduler interface defines the contract for process scheduling.
type Scheduler interface {
	// Schedule adds a process to the run queue.
	Schedule(p pcb.PID) error
	// Next removes and returns the next process to run.
	Next() (pcb.PID, error)
	// Remove removes a process from the run queue, reporting whether it was there.
	Remove(p pcb.PID) bool
	// Len returns the number of runnable processes.
	Len() int
}

// RoundRobin is a single FIFO ready queue.
type RoundRobin struct {
	procs *pcb.Table[Key]
	ready pcb.Queue
}

// NewRoundRobin creates an empty round-robin scheduler over procs.
func NewRoundRobin(procs *pcb.Table[Key]) *RoundRobin {
	return &RoundRobin{
		procs: procs,
		ready: pcb.EmptyQueue(),
	}
}

// Schedule adds a process at the tail of the ready queue.
func (s *RoundRobin) Schedule(p pcb.PID) error {
	return s.procs.InsertTail(&s.ready, p)
}

// Next returns the process at the head of the ready queue.
func (s *RoundRobin) Next() (pcb.PID, error) {
	p, err := s.procs.RemoveHead(&s.ready)
	if err != nil {
		return pcb.NoPID, ErrNoReady
	}
	return p, nil
}

// Peek returns the next process without removing it.
func (s *RoundRobin) Peek() pcb.PID {
	p, _ := s.procs.Head(s.ready)
	return p
}

// Remove removes a process from the ready queue.
func (s *RoundRobin) Remove(p pcb.PID) bool {
	_, err := s.procs.Remove(&s.ready, p)
	return err == nil
}

// Len returns the number of ready processes.
func (s *RoundRobin) Len() int {
	return s.procs.Len(s.ready)
}

// Ready returns the ready processes in dispatch order.
func (s *RoundRobin) Ready() []pcb.PID {
	out := make([]pcb.PID, 0, s.Len())
	s.procs.Walk(s.ready, func(p pcb.PID) bool {
		out = append(out, p)
		return true
	})
	return out
}

var _ Scheduler = (*RoundRobin)(nil)
