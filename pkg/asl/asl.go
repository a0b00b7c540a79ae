package asl

import (
	"cmp"
	"errors"

	"kaya/pkg/pcb"
)

// Semaphore list errors.
var (
	ErrExhausted = errors.New("asl: no free semaphore descriptors")
	ErrNotFound  = errors.New("asl: not found")
)

// sid is a 1-based index into the descriptor pool; 0 means none.
type sid int32

// semd binds a key to the queue of processes blocked on it.
type semd[K cmp.Ordered] struct {
	next  sid
	key   K
	queue pcb.Queue
}

// List is the Active Semaphore List over a process table.
type List[K cmp.Ordered] struct {
	procs  *pcb.Table[K]
	semds  []semd[K]
	free   sid
	head   sid
	active int
}

// New creates an empty list whose descriptor pool holds capacity entries.
// A non-positive capacity sizes the pool to the process table, enough for
// every process to wait on a different key.
func New[K cmp.Ordered](procs *pcb.Table[K], capacity int) *List[K] {
	if capacity <= 0 {
		capacity = procs.Cap()
	}

	l := &List[K]{
		procs: procs,
		semds: make([]semd[K], capacity),
	}

	for i := capacity; i >= 1; i-- {
		l.semds[i-1].next = l.free
		l.free = sid(i)
	}

	return l
}

// Cap returns the size of the descriptor pool.
func (l *List[K]) Cap() int {
	return len(l.semds)
}

// Len returns the number of active descriptors.
func (l *List[K]) Len() int {
	return l.active
}

// Available returns the number of unused descriptors.
func (l *List[K]) Available() int {
	return len(l.semds) - l.active
}

// Block appends p to the queue for key and binds key to p. An entry for key
// is created if none exists. On error nothing is changed: ErrExhausted when
// a new entry is needed and the pool is empty, pcb.ErrInvalidPID or
// pcb.ErrQueued when p cannot be queued.
func (l *List[K]) Block(key K, p pcb.PID) error {
	if err := l.procs.CheckInsert(p); err != nil {
		return err
	}

	prev, cur := l.seek(key)
	if cur == 0 || cmp.Compare(l.get(cur).key, key) != 0 {
		if l.free == 0 {
			return ErrExhausted
		}

		s := l.free
		sd := l.get(s)
		l.free = sd.next

		*sd = semd[K]{key: key, next: cur}
		l.link(prev, s)
		l.active++
		cur = s
	}

	if err := l.procs.InsertTail(&l.get(cur).queue, p); err != nil {
		return err
	}
	return l.procs.BindKey(p, key)
}

// Wake removes and returns the first process waiting on key, clearing its
// binding. The entry is released once its queue drains.
func (l *List[K]) Wake(key K) (pcb.PID, error) {
	prev, cur := l.seek(key)
	if cur == 0 || cmp.Compare(l.get(cur).key, key) != 0 {
		return pcb.NoPID, ErrNotFound
	}

	sd := l.get(cur)
	p, err := l.procs.RemoveHead(&sd.queue)
	if sd.queue.Empty() {
		l.release(prev, cur)
	}
	if err != nil {
		return pcb.NoPID, ErrNotFound
	}

	l.procs.ClearKey(p)
	return p, nil
}

// Detach pulls p out of the queue of the key it is bound to, wherever it
// sits in that queue. It returns ErrNotFound if p is not blocked, or is
// bound to a key whose queue does not hold it.
func (l *List[K]) Detach(p pcb.PID) (pcb.PID, error) {
	key, ok := l.procs.SemKey(p)
	if !ok {
		return pcb.NoPID, ErrNotFound
	}

	var prev sid
	for cur := l.head; cur != 0; prev, cur = cur, l.get(cur).next {
		sd := l.get(cur)
		if cmp.Compare(sd.key, key) != 0 {
			continue
		}

		if _, err := l.procs.Remove(&sd.queue, p); err != nil {
			return pcb.NoPID, ErrNotFound
		}
		if sd.queue.Empty() {
			l.release(prev, cur)
		}
		l.procs.ClearKey(p)
		return p, nil
	}

	return pcb.NoPID, ErrNotFound
}

// Head returns the first process waiting on key without removing it.
func (l *List[K]) Head(key K) (pcb.PID, error) {
	_, cur := l.seek(key)
	if cur == 0 || cmp.Compare(l.get(cur).key, key) != 0 {
		return pcb.NoPID, ErrNotFound
	}

	p, err := l.procs.Head(l.get(cur).queue)
	if err != nil {
		return pcb.NoPID, ErrNotFound
	}
	return p, nil
}

// Waiters returns the number of processes blocked on key.
func (l *List[K]) Waiters(key K) int {
	_, cur := l.seek(key)
	if cur == 0 || cmp.Compare(l.get(cur).key, key) != 0 {
		return 0
	}
	return l.procs.Len(l.get(cur).queue)
}

// Keys returns the active keys in list order.
func (l *List[K]) Keys() []K {
	keys := make([]K, 0, l.active)
	for cur := l.head; cur != 0; cur = l.get(cur).next {
		keys = append(keys, l.get(cur).key)
	}
	return keys
}

// seek walks the list in ascending order and stops at the first entry whose
// key is not below key. cur is 0 when every key is smaller; prev is 0 when
// cur is the first entry. Keys are ordered by cmp.Compare, so a NaN key
// sorts first and matches itself.
func (l *List[K]) seek(key K) (prev, cur sid) {
	cur = l.head
	for cur != 0 && cmp.Compare(l.get(cur).key, key) < 0 {
		prev, cur = cur, l.get(cur).next
	}
	return prev, cur
}

// link points prev, or the list head when prev is 0, at s.
func (l *List[K]) link(prev, s sid) {
	if prev == 0 {
		l.head = s
		return
	}
	l.get(prev).next = s
}

// release unlinks cur, whose predecessor is prev, and returns it to the pool.
func (l *List[K]) release(prev, cur sid) {
	sd := l.get(cur)
	l.link(prev, sd.next)

	*sd = semd[K]{next: l.free}
	l.free = cur
	l.active--
}

func (l *List[K]) get(s sid) *semd[K] {
	return &l.semds[s-1]
}
