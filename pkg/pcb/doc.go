/*
Package pcb manages process control blocks for the Kaya nucleus.

Descriptors live in a fixed-capacity arena created once by New and are
addressed by PID handles. A PID is a 1-based slot index; NoPID is the empty
reference, so a freshly allocated descriptor has every link cleared.

The package provides three views over the same descriptors:

  - Free pool: Alloc and Free pop and push the head of a singly linked
    free list (LIFO reuse, O(1) both ways).
  - Process queues: Queue is a tail handle of a circular singly linked
    list. The head is the tail's successor, and a queue of one is a
    self-loop. InsertTail, RemoveHead, Head and Remove operate on it.
  - Process tree: each descriptor has a parent, a first child and a next
    sibling. InsertChild pushes a new first child, RemoveChild pops it and
    Detach unlinks a descriptor from anywhere in its parent's child list.

A descriptor is in at most one queue at a time. Tables are not safe for
concurrent use: the caller runs every operation to completion with
interrupts off or an equivalent exclusive token held.

# Usage

	t := pcb.New[uint64](pcb.MaxProc)

	p, err := t.Alloc()
	if err != nil {
		// pool exhausted
	}

	var ready pcb.Queue
	t.InsertTail(&ready, p)
	next, _ := t.RemoveHead(&ready)
*/
package pcb
