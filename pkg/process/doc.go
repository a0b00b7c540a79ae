/*
Package process is the nucleus layer that drives the process control blocks
and the Active Semaphore List.

It plays the part of the scheduler and system-call handler around packages
pcb and asl. It includes:

  - Process creation as a child of an existing process or as a root
  - Round-robin dispatch over a single ready queue
  - Counting semaphores identified by opaque keys (P and V)
  - Termination of a process together with all of its descendants

The Manager has no locks. Every call must run to completion before the next
one starts, as if interrupts were disabled for its duration.

# Process States

A live process is in exactly one of these states:

  - Ready: waiting on the ready queue
  - Running: the process most recently dispatched
  - Blocked: waiting in the queue of a semaphore key

Free describes a handle that does not refer to a live process.

# Usage

Creating and running processes:

	m := process.NewManager(process.Config{
		MaxProc: 20,
		Logger:  log.New(os.Stderr, "nucleus: ", log.LstdFlags),
	})

	root, err := m.Create(pcb.NoPID, pcb.State{})
	if err != nil {
		// Handle error
	}
	child, _ := m.Create(root, pcb.State{})

	m.Dispatch() // root runs

# Semaphores

A semaphore is an integer value bound to a Key. Passeren decrements it and
blocks the running process when the value drops below zero; Verhogen
increments it and readies the longest waiting process when the value was
negative:

	const disk process.Key = 0x1000

	m.SetValue(disk, 0)
	m.Passeren(disk) // running process blocks
	m.Verhogen(disk) // and is made ready again

Terminating a process that is blocked gives its unit back to the semaphore it
was waiting on.
*/
package process
