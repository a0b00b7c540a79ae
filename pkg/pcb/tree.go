package pcb

// NoChildren reports whether p has no children.
func (t *Table[K]) NoChildren(p PID) bool {
	return !t.Valid(p) || t.slot(p).child == NoPID
}

// Parent returns p's parent, or NoPID for a root or an invalid handle.
func (t *Table[K]) Parent(p PID) PID {
	if !t.Valid(p) {
		return NoPID
	}
	return t.slot(p).parent
}

// Children returns p's children, most recently inserted first.
func (t *Table[K]) Children(p PID) []PID {
	if !t.Valid(p) {
		return nil
	}

	var out []PID
	for c := t.slot(p).child; c != NoPID; c = t.slot(c).sibling {
		out = append(out, c)
	}
	return out
}

// InsertChild makes child the first child of parent.
func (t *Table[K]) InsertChild(parent, child PID) error {
	if !t.Valid(parent) || !t.Valid(child) {
		return ErrInvalidPID
	}

	c := t.slot(child)
	if c.parent != NoPID {
		return ErrHasParent
	}
	for a := parent; a != NoPID; a = t.slot(a).parent {
		if a == child {
			return ErrCycle
		}
	}

	pd := t.slot(parent)
	c.sibling = pd.child
	c.parent = parent
	pd.child = child

	return nil
}

// RemoveChild unlinks and returns parent's first child. The child keeps its
// own subtree.
func (t *Table[K]) RemoveChild(parent PID) (PID, error) {
	if !t.Valid(parent) {
		return NoPID, ErrNotFound
	}

	pd := t.slot(parent)
	first := pd.child
	if first == NoPID {
		return NoPID, ErrNotFound
	}

	c := t.slot(first)
	pd.child = c.sibling
	c.parent = NoPID
	c.sibling = NoPID

	return first, nil
}

// Detach removes p from its parent's child list, whatever its position.
func (t *Table[K]) Detach(p PID) (PID, error) {
	if !t.Valid(p) {
		return NoPID, ErrNotFound
	}

	d := t.slot(p)
	if d.parent == NoPID {
		return NoPID, ErrNotFound
	}

	pd := t.slot(d.parent)
	if pd.child == p {
		pd.child = d.sibling
	} else {
		prev := pd.child
		for prev != NoPID && t.slot(prev).sibling != p {
			prev = t.slot(prev).sibling
		}
		if prev == NoPID {
			return NoPID, ErrNotFound
		}
		t.slot(prev).sibling = d.sibling
	}

	d.parent = NoPID
	d.sibling = NoPID

	return p, nil
}
