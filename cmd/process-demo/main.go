// process-demo walks the Kaya nucleus through process creation, semaphore
// blocking and subtree termination, printing the queues after each step.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"kaya/pkg/pcb"
	"kaya/pkg/process"
)

const (
	keyDisk process.Key = 0x10000040
	keyTerm process.Key = 0x10000250
	keyTape process.Key = 0x100000d0
)

func main() {
	maxProc := flag.Int("maxproc", pcb.MaxProc, "number of process descriptors")
	maxSem := flag.Int("maxsem", 0, "number of semaphore descriptors (0: one per process)")
	verbose := flag.Bool("v", false, "log nucleus events to stderr")
	flag.Parse()

	if env := os.Getenv("KAYA_MAXPROC"); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			log.Fatalf("Invalid KAYA_MAXPROC: %v", err)
		}
		*maxProc = n
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "nucleus: ", log.Lmicroseconds)
	}

	m := process.NewManager(process.Config{
		MaxProc: *maxProc,
		MaxSem:  *maxSem,
		Logger:  logger,
	})

	fmt.Println("=== Kaya Nucleus Demo ===")
	fmt.Printf("Process descriptors: %d, semaphore descriptors: %d\n",
		m.Procs().Cap(), m.Semaphores().Cap())

	// Process creation
	fmt.Println("\n--- Process Creation ---")
	root, err := m.Create(pcb.NoPID, pcb.State{})
	if err != nil {
		log.Fatalf("Failed to create root: %v", err)
	}
	var workers []pcb.PID
	for i := 0; i < 4; i++ {
		p, err := m.Create(root, pcb.State{uint32(i)})
		if err != nil {
			log.Fatalf("Failed to create worker %d: %v", i, err)
		}
		workers = append(workers, p)
	}
	grandchild, err := m.Create(workers[0], pcb.State{})
	if err != nil {
		log.Fatalf("Failed to create grandchild: %v", err)
	}
	fmt.Printf("Root PID=%d, children=%v\n", root, m.Procs().Children(root))
	fmt.Printf("Grandchild PID=%d under %d\n", grandchild, workers[0])
	printQueues(m)

	// Semaphores
	fmt.Println("\n--- Blocking on Semaphores ---")
	for _, key := range []process.Key{keyTerm, keyDisk, keyTape} {
		m.SetValue(key, 0)
	}
	blockOn := []process.Key{keyTerm, keyDisk, keyDisk, keyTape}
	for _, key := range blockOn {
		p, err := m.Dispatch()
		if err != nil {
			log.Fatalf("Dispatch failed: %v", err)
		}
		if err := m.Passeren(key); err != nil {
			log.Fatalf("P(%#x) failed: %v", key, err)
		}
		fmt.Printf("PID %d blocked on %#x\n", p, key)
	}
	printQueues(m)

	// Wake-ups
	fmt.Println("\n--- Waking ---")
	woken, err := m.Verhogen(keyDisk)
	if err != nil {
		log.Fatalf("V(%#x) failed: %v", keyDisk, err)
	}
	fmt.Printf("V(%#x) readied PID %d\n", keyDisk, woken)
	printQueues(m)

	// Termination
	fmt.Println("\n--- Terminating Subtree ---")
	victim := workers[0]
	fmt.Printf("Terminating PID %d (%s) and its descendants\n", victim, m.State(victim))
	if err := m.Terminate(victim); err != nil {
		log.Fatalf("Terminate failed: %v", err)
	}
	fmt.Printf("Root children now %v\n", m.Procs().Children(root))
	printQueues(m)

	// Listing
	fmt.Println("\n--- Process Listing ---")
	for p := pcb.PID(1); int(p) <= m.Procs().Cap(); p++ {
		info, err := m.Info(p)
		if err != nil {
			continue
		}
		line := fmt.Sprintf("  PID=%d, Parent=%d, State=%s", info.PID, info.Parent, info.State)
		if info.State == process.StateBlocked {
			line += fmt.Sprintf(", Key=%#x", info.Key)
		}
		fmt.Println(line)
	}

	fmt.Println("\n=== Demo Complete ===")
}

func printQueues(m *process.Manager) {
	fmt.Printf("Running: %d, ready: %v\n", m.Current(), m.Ready())
	sems := m.Semaphores()
	for _, key := range sems.Keys() {
		head, _ := sems.Head(key)
		fmt.Printf("  sem %#x value=%d waiters=%d head=%d\n",
			key, m.Value(key), sems.Waiters(key), head)
	}
	fmt.Printf("Free descriptors: pcb=%d sem=%d\n",
		m.Procs().Available(), sems.Available())
}
