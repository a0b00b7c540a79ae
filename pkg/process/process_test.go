package process

import (
	"bytes"
	"errors"
	"log"
	"reflect"
	"strings"
	"testing"

	"kaya/pkg/asl"
	"kaya/pkg/pcb"
)

func mustCreate(t *testing.T, m *Manager, parent pcb.PID) pcb.PID {
	t.Helper()
	p, err := m.Create(parent, pcb.State{uint32(parent)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return p
}

// TestStateTransitions tests the transition table.
func TestStateTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ProcessState
		to   ProcessState
		want bool
	}{
		{"Free to Ready", StateFree, StateReady, true},
		{"Ready to Running", StateReady, StateRunning, true},
		{"Running to Blocked", StateRunning, StateBlocked, true},
		{"Blocked to Ready", StateBlocked, StateReady, true},
		{"Blocked to Free", StateBlocked, StateFree, true},
		{"Ready to Blocked", StateReady, StateBlocked, false},
		{"Blocked to Running", StateBlocked, StateRunning, false},
		{"Free to Running", StateFree, StateRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("IsValidTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}

	if err := checkTransition(StateFree, StateBlocked); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("checkTransition() error = %v, want %v", err, ErrInvalidTransition)
	}
}

// TestManagerCreate tests creation, tree links and exhaustion.
func TestManagerCreate(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(Config{MaxProc: 3, Logger: log.New(&buf, "", 0)})

	root := mustCreate(t, m, pcb.NoPID)
	a := mustCreate(t, m, root)
	b := mustCreate(t, m, root)

	if got := m.Procs().Children(root); !reflect.DeepEqual(got, []pcb.PID{b, a}) {
		t.Errorf("Children() = %v, want %v", got, []pcb.PID{b, a})
	}
	if got := m.Ready(); !reflect.DeepEqual(got, []pcb.PID{root, a, b}) {
		t.Errorf("Ready() = %v, want %v", got, []pcb.PID{root, a, b})
	}

	info, err := m.Info(a)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Parent != root || info.State != StateReady || info.CPU[0] != uint32(root) {
		t.Errorf("Info() = %+v", info)
	}

	if _, err := m.Create(root, pcb.State{}); !errors.Is(err, pcb.ErrExhausted) {
		t.Errorf("Create() error = %v, want %v", err, pcb.ErrExhausted)
	}
	if !strings.Contains(buf.String(), "no free process descriptors") {
		t.Errorf("log = %q, want exhaustion message", buf.String())
	}

	if _, err := m.Create(42, pcb.State{}); !errors.Is(err, pcb.ErrInvalidPID) {
		t.Errorf("Create() with bad parent error = %v, want %v", err, pcb.ErrInvalidPID)
	}
}

// TestManagerCreateFailureLeavesNoTrace tests a rejected Create keeps the
// pool, the tree and the ready queue as they were.
func TestManagerCreateFailureLeavesNoTrace(t *testing.T) {
	m := NewManager(Config{MaxProc: 2})
	root := mustCreate(t, m, pcb.NoPID)

	if err := m.Terminate(root); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}
	for _, parent := range []pcb.PID{root, 42} {
		if _, err := m.Create(parent, pcb.State{}); !errors.Is(err, pcb.ErrInvalidPID) {
			t.Errorf("Create(%d) error = %v, want %v", parent, err, pcb.ErrInvalidPID)
		}
	}
	if m.Procs().Available() != 2 || len(m.Ready()) != 0 {
		t.Errorf("Available(), Ready() = %d, %v, want 2, []", m.Procs().Available(), m.Ready())
	}

	a := mustCreate(t, m, pcb.NoPID)
	b := mustCreate(t, m, a)
	if _, err := m.Create(a, pcb.State{}); !errors.Is(err, pcb.ErrExhausted) {
		t.Errorf("Create() error = %v, want %v", err, pcb.ErrExhausted)
	}
	if got := m.Procs().Children(a); !reflect.DeepEqual(got, []pcb.PID{b}) {
		t.Errorf("Children() = %v, want %v", got, []pcb.PID{b})
	}
	if got := m.Ready(); !reflect.DeepEqual(got, []pcb.PID{a, b}) {
		t.Errorf("Ready() = %v, want %v", got, []pcb.PID{a, b})
	}
}

// TestManagerDispatch tests round-robin dispatch.
func TestManagerDispatch(t *testing.T) {
	m := NewManager(Config{})

	if _, err := m.Dispatch(); !errors.Is(err, ErrNoReady) {
		t.Errorf("Dispatch() on empty error = %v, want %v", err, ErrNoReady)
	}

	a := mustCreate(t, m, pcb.NoPID)
	b := mustCreate(t, m, pcb.NoPID)

	for _, want := range []pcb.PID{a, b, a, b} {
		got, err := m.Dispatch()
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		if got != want {
			t.Errorf("Dispatch() = %d, want %d", got, want)
		}
		if m.State(got) != StateRunning {
			t.Errorf("State() = %s, want %s", m.State(got), StateRunning)
		}
	}
}

// TestManagerSemaphores tests P and V across two processes.
func TestManagerSemaphores(t *testing.T) {
	const key Key = 0x2000
	m := NewManager(Config{})

	a := mustCreate(t, m, pcb.NoPID)
	b := mustCreate(t, m, pcb.NoPID)

	if err := m.Passeren(key); !errors.Is(err, ErrNoRunning) {
		t.Errorf("Passeren() while idle error = %v, want %v", err, ErrNoRunning)
	}

	m.SetValue(key, 1)
	m.Dispatch() // a runs

	if err := m.Passeren(key); err != nil {
		t.Fatalf("Passeren() error = %v", err)
	}
	if m.Current() != a || m.Value(key) != 0 {
		t.Errorf("Current(), Value() = %d, %d, want %d, 0", m.Current(), m.Value(key), a)
	}

	m.Dispatch() // b runs, a ready
	m.Dispatch() // a runs, b ready
	if err := m.Passeren(key); err != nil {
		t.Fatalf("Passeren() error = %v", err)
	}
	if m.State(a) != StateBlocked || m.Current() != pcb.NoPID {
		t.Errorf("State(a) = %s, Current() = %d", m.State(a), m.Current())
	}
	if got := m.Semaphores().Keys(); !reflect.DeepEqual(got, []Key{key}) {
		t.Errorf("Keys() = %v, want %v", got, []Key{key})
	}

	m.Dispatch() // b runs
	woken, err := m.Verhogen(key)
	if err != nil || woken != a {
		t.Fatalf("Verhogen() = %d, %v, want %d, nil", woken, err, a)
	}
	if m.State(a) != StateReady || m.Value(key) != 0 {
		t.Errorf("State(a) = %s, Value() = %d", m.State(a), m.Value(key))
	}
	if m.Semaphores().Len() != 0 {
		t.Errorf("Semaphores().Len() = %d, want 0", m.Semaphores().Len())
	}

	if woken, err := m.Verhogen(key); err != nil || woken != pcb.NoPID {
		t.Errorf("Verhogen() = %d, %v, want NoPID, nil", woken, err)
	}
	if m.Value(key) != 1 {
		t.Errorf("Value() = %d, want 1", m.Value(key))
	}
	_ = b
}

// TestManagerPasserenExhausted tests a failed block leaves the process running.
func TestManagerPasserenExhausted(t *testing.T) {
	m := NewManager(Config{MaxProc: 2, MaxSem: 1})
	a := mustCreate(t, m, pcb.NoPID)
	b := mustCreate(t, m, pcb.NoPID)

	m.Dispatch()
	if err := m.Passeren(1); err != nil {
		t.Fatalf("Passeren(1) error = %v", err)
	}
	m.Dispatch()
	if m.Current() != b {
		t.Fatalf("Current() = %d, want %d", m.Current(), b)
	}

	if err := m.Passeren(2); !errors.Is(err, asl.ErrExhausted) {
		t.Errorf("Passeren(2) error = %v, want %v", err, asl.ErrExhausted)
	}
	if m.Current() != b || m.Value(2) != 0 {
		t.Errorf("Current(), Value(2) = %d, %d, want %d, 0", m.Current(), m.Value(2), b)
	}
	if m.State(a) != StateBlocked {
		t.Errorf("State(a) = %s, want %s", m.State(a), StateBlocked)
	}
}

// TestManagerTerminate tests killing a subtree in every state.
func TestManagerTerminate(t *testing.T) {
	const key Key = 7
	m := NewManager(Config{MaxProc: 5})

	root := mustCreate(t, m, pcb.NoPID)
	keep := mustCreate(t, m, root)
	victim := mustCreate(t, m, root)
	blocked := mustCreate(t, m, victim)
	ready := mustCreate(t, m, victim)

	// Run until blocked is current, then block it.
	for m.Current() != blocked {
		if _, err := m.Dispatch(); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}
	if err := m.Passeren(key); err != nil {
		t.Fatalf("Passeren() error = %v", err)
	}
	if m.Value(key) != -1 {
		t.Fatalf("Value() = %d, want -1", m.Value(key))
	}

	// Make victim itself the running process.
	for m.Current() != victim {
		m.Dispatch()
	}

	if err := m.Terminate(victim); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	for _, p := range []pcb.PID{victim, blocked, ready} {
		if m.State(p) != StateFree {
			t.Errorf("State(%d) = %s, want %s", p, m.State(p), StateFree)
		}
	}
	if m.Current() != pcb.NoPID {
		t.Errorf("Current() = %d, want NoPID", m.Current())
	}
	if m.Value(key) != 0 {
		t.Errorf("Value() = %d, want 0", m.Value(key))
	}
	if m.Semaphores().Len() != 0 {
		t.Errorf("Semaphores().Len() = %d, want 0", m.Semaphores().Len())
	}
	if got := m.Procs().Children(root); !reflect.DeepEqual(got, []pcb.PID{keep}) {
		t.Errorf("Children(root) = %v, want %v", got, []pcb.PID{keep})
	}
	if got := m.Ready(); !reflect.DeepEqual(got, []pcb.PID{root, keep}) && !reflect.DeepEqual(got, []pcb.PID{keep, root}) {
		t.Errorf("Ready() = %v, want root and keep", got)
	}
	if m.Procs().Available() != 3 {
		t.Errorf("Available() = %d, want 3", m.Procs().Available())
	}

	if err := m.Terminate(victim); !errors.Is(err, pcb.ErrInvalidPID) {
		t.Errorf("second Terminate() error = %v, want %v", err, pcb.ErrInvalidPID)
	}
}

// TestManagerTerminateInconsistent tests Terminate reports a victim whose
// binding has no matching semaphore queue and stops there.
func TestManagerTerminateInconsistent(t *testing.T) {
	m := NewManager(Config{MaxProc: 3})
	root := mustCreate(t, m, pcb.NoPID)
	stray := mustCreate(t, m, root)
	last := mustCreate(t, m, root)

	// stray sits on the ready queue but claims to be blocked on key 9.
	if err := m.Procs().BindKey(stray, 9); err != nil {
		t.Fatalf("BindKey() error = %v", err)
	}

	err := m.Terminate(root)
	if !errors.Is(err, asl.ErrNotFound) {
		t.Fatalf("Terminate() error = %v, want %v", err, asl.ErrNotFound)
	}
	if m.State(last) != StateFree {
		t.Errorf("State(last) = %s, want %s", m.State(last), StateFree)
	}
	for _, p := range []pcb.PID{root, stray} {
		if !m.Procs().Valid(p) {
			t.Errorf("Valid(%d) = false, want true", p)
		}
	}
	if m.Value(9) != 0 {
		t.Errorf("Value(9) = %d, want 0", m.Value(9))
	}
}

// TestRoundRobin tests the scheduler on its own.
func TestRoundRobin(t *testing.T) {
	procs := pcb.New[Key](3)
	s := NewRoundRobin(procs)

	var ps []pcb.PID
	for i := 0; i < 3; i++ {
		p, _ := procs.Alloc()
		if err := s.Schedule(p); err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		ps = append(ps, p)
	}

	if s.Len() != 3 || s.Peek() != ps[0] {
		t.Errorf("Len(), Peek() = %d, %d, want 3, %d", s.Len(), s.Peek(), ps[0])
	}
	if !s.Remove(ps[1]) {
		t.Error("Remove() = false, want true")
	}
	if s.Remove(ps[1]) {
		t.Error("second Remove() = true, want false")
	}
	if err := s.Schedule(ps[0]); !errors.Is(err, pcb.ErrQueued) {
		t.Errorf("Schedule() of queued process error = %v, want %v", err, pcb.ErrQueued)
	}

	for _, want := range []pcb.PID{ps[0], ps[2]} {
		if got, err := s.Next(); err != nil || got != want {
			t.Errorf("Next() = %d, %v, want %d, nil", got, err, want)
		}
	}
	if _, err := s.Next(); !errors.Is(err, ErrNoReady) {
		t.Errorf("Next() error = %v, want %v", err, ErrNoReady)
	}
}
