package pcb

// Queue is a FIFO of process descriptors kept as a circular singly linked
// list. Only the tail is stored; the head is the tail's successor. The zero
// value is an empty queue.
type Queue struct {
	tail PID
}

// EmptyQueue returns an empty queue.
func EmptyQueue() Queue {
	return Queue{}
}

// Empty reports whether q holds no descriptors.
func (q Queue) Empty() bool {
	return q.tail == NoPID
}

// Tail returns the last descriptor in q, or NoPID.
func (q Queue) Tail() PID {
	return q.tail
}

// Queued reports whether p is currently linked into some queue.
func (t *Table[K]) Queued(p PID) bool {
	return t.Valid(p) && t.slot(p).next != NoPID
}

// CheckInsert reports why p could not be appended to a queue, or nil if it
// can. Callers that must not change anything on failure check first.
func (t *Table[K]) CheckInsert(p PID) error {
	if !t.Valid(p) {
		return ErrInvalidPID
	}
	if t.slot(p).next != NoPID {
		return ErrQueued
	}
	return nil
}

// InsertTail appends p to q.
func (t *Table[K]) InsertTail(q *Queue, p PID) error {
	if err := t.CheckInsert(p); err != nil {
		return err
	}

	d := t.slot(p)
	if q.tail == NoPID {
		// A queue of one points at itself.
		d.next = p
	} else {
		tail := t.slot(q.tail)
		d.next = tail.next
		tail.next = p
	}
	q.tail = p

	return nil
}

// RemoveHead unlinks and returns the first descriptor in q.
func (t *Table[K]) RemoveHead(q *Queue) (PID, error) {
	if q.tail == NoPID {
		return NoPID, ErrNotFound
	}

	tail := t.slot(q.tail)
	head := tail.next
	if head == q.tail {
		q.tail = NoPID
	} else {
		tail.next = t.slot(head).next
	}
	t.slot(head).next = NoPID

	return head, nil
}

// Head returns the first descriptor in q without removing it.
func (t *Table[K]) Head(q Queue) (PID, error) {
	if q.tail == NoPID {
		return NoPID, ErrNotFound
	}
	return t.slot(q.tail).next, nil
}

// Remove unlinks p from q wherever it sits, keeping the order of the other
// elements. ErrNotFound means p is not in this queue, which is an ordinary
// answer when the caller does not know which queue holds p.
func (t *Table[K]) Remove(q *Queue, p PID) (PID, error) {
	if q.tail == NoPID || !t.Valid(p) {
		return NoPID, ErrNotFound
	}

	prev := q.tail
	for {
		cur := t.slot(prev).next
		if cur == p {
			if cur == prev {
				q.tail = NoPID
			} else {
				t.slot(prev).next = t.slot(p).next
				if p == q.tail {
					q.tail = prev
				}
			}
			t.slot(p).next = NoPID
			return p, nil
		}
		if cur == q.tail {
			break
		}
		prev = cur
	}

	return NoPID, ErrNotFound
}

// Len returns the number of descriptors in q.
func (t *Table[K]) Len(q Queue) int {
	n := 0
	t.Walk(q, func(PID) bool {
		n++
		return true
	})
	return n
}

// Walk calls fn for each descriptor in q from head to tail until fn
// returns false. fn must not modify q.
func (t *Table[K]) Walk(q Queue, fn func(p PID) bool) {
	if q.tail == NoPID {
		return
	}

	p := t.slot(q.tail).next
	for {
		if !fn(p) || p == q.tail {
			return
		}
		p = t.slot(p).next
	}
}
