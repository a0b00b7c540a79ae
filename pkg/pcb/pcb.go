package pcb

import (
	"cmp"
	"errors"
)

// MaxProc is the default number of concurrent process descriptors.
const MaxProc = 20

// StateWords is the number of 32-bit words in a saved processor state.
const StateWords = 22

// Descriptor errors.
var (
	ErrExhausted  = errors.New("pcb: no free process descriptors")
	ErrNotFound   = errors.New("pcb: process not found")
	ErrInvalidPID = errors.New("pcb: invalid process handle")
	ErrQueued     = errors.New("pcb: process already in a queue")
	ErrNotQueued  = errors.New("pcb: process not in a queue")
	ErrHasParent  = errors.New("pcb: process already has a parent")
	ErrCycle      = errors.New("pcb: insertion would create a cycle")
)

// PID is a handle to a process descriptor.
type PID int32

// NoPID is the empty process reference.
const NoPID PID = 0

// State is a saved processor state. It is copied, never interpreted.
type State [StateWords]uint32

// descriptor is one arena slot. The zero value is a fully reset descriptor.
type descriptor[K cmp.Ordered] struct {
	inUse bool

	// next links the descriptor into a process queue, or into the free
	// list while the slot is unused.
	next PID

	parent  PID
	child   PID
	sibling PID

	state State

	semKey K
	bound  bool
}

// Table is a fixed-capacity arena of process descriptors. K is the type of
// the resource keys processes block on.
type Table[K cmp.Ordered] struct {
	procs []descriptor[K]
	free  PID
	inUse int
}

// New creates a table with room for capacity descriptors, all on the free
// list. A non-positive capacity selects MaxProc.
func New[K cmp.Ordered](capacity int) *Table[K] {
	if capacity <= 0 {
		capacity = MaxProc
	}

	t := &Table[K]{
		procs: make([]descriptor[K], capacity),
	}

	for i := capacity; i >= 1; i-- {
		t.procs[i-1].next = t.free
		t.free = PID(i)
	}

	return t
}

// Cap returns the arena capacity.
func (t *Table[K]) Cap() int {
	return len(t.procs)
}

// InUse returns the number of allocated descriptors.
func (t *Table[K]) InUse() int {
	return t.inUse
}

// Available returns the number of descriptors left on the free list.
func (t *Table[K]) Available() int {
	return len(t.procs) - t.inUse
}

// Alloc takes a descriptor off the free list and returns it with every
// field reset.
func (t *Table[K]) Alloc() (PID, error) {
	if t.free == NoPID {
		return NoPID, ErrExhausted
	}

	p := t.free
	d := t.slot(p)
	t.free = d.next

	*d = descriptor[K]{inUse: true}
	t.inUse++

	return p, nil
}

// Free returns p to the free list. The caller must have unlinked p from any
// queue and from the tree, and must not use p afterwards.
func (t *Table[K]) Free(p PID) error {
	if !t.Valid(p) {
		return ErrInvalidPID
	}

	d := t.slot(p)
	*d = descriptor[K]{next: t.free}
	t.free = p
	t.inUse--

	return nil
}

// Valid reports whether p refers to an allocated descriptor.
func (t *Table[K]) Valid(p PID) bool {
	return p > NoPID && int(p) <= len(t.procs) && t.procs[p-1].inUse
}

// State returns a copy of p's saved processor state.
func (t *Table[K]) State(p PID) (State, error) {
	if !t.Valid(p) {
		return State{}, ErrInvalidPID
	}
	return t.slot(p).state, nil
}

// SetState copies s into p's saved processor state.
func (t *Table[K]) SetState(p PID, s State) error {
	if !t.Valid(p) {
		return ErrInvalidPID
	}
	t.slot(p).state = s
	return nil
}

// SemKey returns the key of the resource p is blocked on. ok is false when
// p is not blocked.
func (t *Table[K]) SemKey(p PID) (key K, ok bool) {
	if !t.Valid(p) {
		return key, false
	}
	d := t.slot(p)
	return d.semKey, d.bound
}

// BindKey records that p is blocked on key. A process is bound exactly
// while it sits in a semaphore queue, so p must already be queued; otherwise
// ErrNotQueued is returned and nothing changes. Only the semaphore list
// should call BindKey and ClearKey. Binding a process queued elsewhere, such
// as on a ready queue, makes it look blocked to every reader of SemKey.
func (t *Table[K]) BindKey(p PID, key K) error {
	if !t.Valid(p) {
		return ErrInvalidPID
	}
	d := t.slot(p)
	if d.next == NoPID {
		return ErrNotQueued
	}
	d.semKey = key
	d.bound = true
	return nil
}

// ClearKey drops p's resource binding once p has left its queue. It does
// nothing while p is still queued.
func (t *Table[K]) ClearKey(p PID) {
	if !t.Valid(p) {
		return
	}
	d := t.slot(p)
	if d.next != NoPID {
		return
	}
	var zero K
	d.semKey = zero
	d.bound = false
}

func (t *Table[K]) slot(p PID) *descriptor[K] {
	return &t.procs[p-1]
}
