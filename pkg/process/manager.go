package process

import (
	"errors"
	"fmt"
	"io"
	"log"

	"kaya/pkg/asl"
	"kaya/pkg/pcb"
)

// Manager errors.
var (
	ErrNoRunning = errors.New("no running process")
)

// Config holds nucleus configuration.
type Config struct {
	// MaxProc is the number of process descriptors. Zero selects pcb.MaxProc.
	MaxProc int
	// MaxSem is the number of semaphore descriptors. Zero allows one per process.
	MaxSem int
	// Logger receives lifecycle messages. Nil discards them.
	Logger *log.Logger
}

// Manager owns the process table, the ready queue and the Active Semaphore
// List of one nucleus.
type Manager struct {
	procs *pcb.Table[Key]
	sems  *asl.List[Key]
	sched *RoundRobin
	// current is the running process, or pcb.NoPID when idle.
	current pcb.PID
	// values holds semaphore values by key.
	values map[Key]int
	log    *log.Logger
}

// NewManager creates a nucleus with the given configuration.
func NewManager(cfg Config) *Manager {
	if cfg.MaxProc <= 0 {
		cfg.MaxProc = pcb.MaxProc
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	procs := pcb.New[Key](cfg.MaxProc)
	return &Manager{
		procs:  procs,
		sems:   asl.New(procs, cfg.MaxSem),
		sched:  NewRoundRobin(procs),
		values: make(map[Key]int),
		log:    cfg.Logger,
	}
}

// Procs returns the process table.
func (m *Manager) Procs() *pcb.Table[Key] {
	return m.procs
}

// Semaphores returns the Active Semaphore List.
func (m *Manager) Semaphores() *asl.List[Key] {
	return m.sems
}

// Current returns the running process, or pcb.NoPID.
func (m *Manager) Current() pcb.PID {
	return m.current
}

// Ready returns the ready queue in dispatch order.
func (m *Manager) Ready() []pcb.PID {
	return m.sched.Ready()
}

// State returns the state of p.
func (m *Manager) State(p pcb.PID) ProcessState {
	switch {
	case !m.procs.Valid(p):
		return StateFree
	case p == m.current:
		return StateRunning
	}
	if _, ok := m.procs.SemKey(p); ok {
		return StateBlocked
	}
	return StateReady
}

// Info returns a snapshot of p.
func (m *Manager) Info(p pcb.PID) (Info, error) {
	cpu, err := m.procs.State(p)
	if err != nil {
		return Info{}, err
	}
	key, _ := m.procs.SemKey(p)
	return Info{
		PID:      p,
		Parent:   m.procs.Parent(p),
		Children: m.procs.Children(p),
		State:    m.State(p),
		Key:      key,
		CPU:      cpu,
	}, nil
}

// Create allocates a process with the given processor state, makes it the
// first child of parent (a root when parent is pcb.NoPID) and puts it on the
// ready queue.
func (m *Manager) Create(parent pcb.PID, st pcb.State) (pcb.PID, error) {
	if parent != pcb.NoPID && !m.procs.Valid(parent) {
		return pcb.NoPID, fmt.Errorf("create: parent %d: %w", parent, pcb.ErrInvalidPID)
	}

	p, err := m.procs.Alloc()
	if err != nil {
		m.log.Printf("create: %v", err)
		return pcb.NoPID, fmt.Errorf("create: %w", err)
	}

	if err := m.procs.SetState(p, st); err != nil {
		_ = m.procs.Free(p)
		return pcb.NoPID, fmt.Errorf("create: %w", err)
	}
	if parent != pcb.NoPID {
		if err := m.procs.InsertChild(parent, p); err != nil {
			_ = m.procs.Free(p)
			return pcb.NoPID, fmt.Errorf("create: %w", err)
		}
	}
	if err := m.sched.Schedule(p); err != nil {
		_, _ = m.procs.Detach(p)
		_ = m.procs.Free(p)
		return pcb.NoPID, fmt.Errorf("create: %w", err)
	}

	m.log.Printf("create: pid %d parent %d", p, parent)
	return p, nil
}

// Dispatch puts the running process back on the ready queue and runs the
// head of the queue.
func (m *Manager) Dispatch() (pcb.PID, error) {
	if m.current != pcb.NoPID {
		if err := m.sched.Schedule(m.current); err != nil {
			return pcb.NoPID, fmt.Errorf("dispatch: %w", err)
		}
		m.current = pcb.NoPID
	}

	next, err := m.sched.Next()
	if err != nil {
		return pcb.NoPID, err
	}
	m.current = next

	return next, nil
}

// SetValue sets the value of the semaphore identified by key.
func (m *Manager) SetValue(key Key, v int) {
	if v == 0 {
		delete(m.values, key)
		return
	}
	m.values[key] = v
}

// Value returns the value of the semaphore identified by key.
func (m *Manager) Value(key Key) int {
	return m.values[key]
}

// Passeren performs a P on key for the running process. When the value
// drops below zero the process is blocked and nothing is running afterwards.
// If the semaphore list is out of descriptors the value is restored and
// asl.ErrExhausted is returned with the process still running.
func (m *Manager) Passeren(key Key) error {
	if m.current == pcb.NoPID {
		return ErrNoRunning
	}

	m.SetValue(key, m.values[key]-1)
	if m.values[key] >= 0 {
		return nil
	}

	if err := checkTransition(m.State(m.current), StateBlocked); err != nil {
		return err
	}
	if err := m.sems.Block(key, m.current); err != nil {
		m.SetValue(key, m.values[key]+1)
		m.log.Printf("passeren: pid %d key %#x: %v", m.current, key, err)
		return fmt.Errorf("passeren: %w", err)
	}

	m.log.Printf("passeren: pid %d blocked on %#x", m.current, key)
	m.current = pcb.NoPID
	return nil
}

// Verhogen performs a V on key. When a process was waiting, the longest
// waiting one is moved to the ready queue and returned.
func (m *Manager) Verhogen(key Key) (pcb.PID, error) {
	m.SetValue(key, m.values[key]+1)
	if m.values[key] > 0 {
		return pcb.NoPID, nil
	}

	p, err := m.sems.Wake(key)
	if errors.Is(err, asl.ErrNotFound) {
		return pcb.NoPID, nil
	}
	if err != nil {
		return pcb.NoPID, fmt.Errorf("verhogen: %w", err)
	}
	if err := m.sched.Schedule(p); err != nil {
		return pcb.NoPID, fmt.Errorf("verhogen: %w", err)
	}

	m.log.Printf("verhogen: pid %d woken from %#x", p, key)
	return p, nil
}

// Terminate kills p and all of its descendants. A victim blocked on a
// semaphore is taken out of its queue and the semaphore gets its unit back.
//
// An error other than pcb.ErrInvalidPID means the tree, the ready queue and
// the semaphore list had already drifted apart, for instance a process bound
// to a key whose queue does not hold it. Terminate stops at the first such
// victim: descendants killed before it stay freed, while it and the rest of
// the subtree are left allocated. The Manager should not be used afterwards.
func (m *Manager) Terminate(p pcb.PID) error {
	if !m.procs.Valid(p) {
		return fmt.Errorf("terminate: %w", pcb.ErrInvalidPID)
	}

	if m.procs.Parent(p) != pcb.NoPID {
		if _, err := m.procs.Detach(p); err != nil {
			return fmt.Errorf("terminate: pid %d: %w", p, err)
		}
	}
	return m.kill(p)
}

// kill frees p after its children, depth first. It returns on the first
// failure without undoing the victims already freed.
func (m *Manager) kill(p pcb.PID) error {
	for {
		c, err := m.procs.RemoveChild(p)
		if err != nil {
			break
		}
		if err := m.kill(c); err != nil {
			return err
		}
	}

	from := m.State(p)
	if err := checkTransition(from, StateFree); err != nil {
		return err
	}

	switch from {
	case StateRunning:
		m.current = pcb.NoPID
	case StateBlocked:
		key, _ := m.procs.SemKey(p)
		if _, err := m.sems.Detach(p); err != nil {
			return fmt.Errorf("terminate: pid %d: %w", p, err)
		}
		m.SetValue(key, m.values[key]+1)
	case StateReady:
		m.sched.Remove(p)
	}

	m.log.Printf("terminate: pid %d (%s)", p, from)
	return m.procs.Free(p)
}
