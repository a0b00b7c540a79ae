/*
Package asl implements the Active Semaphore List: the registry of resources
that currently have processes waiting on them.

Each entry binds a resource key to a pcb.Queue of blocked processes. Entries
are kept in strictly ascending key order with no duplicates, and exist only
while their queue is non-empty: Block creates an entry the first time a key
is seen, and Wake or Detach return it to a fixed pool the moment its last
waiter leaves.

Keys are opaque. The list only compares them for equality and order.

A List shares its process table with the rest of the nucleus and, like the
table, must only be used from one execution context at a time.
*/
package asl
