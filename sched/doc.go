// Package sched implements the coroutine scheduler.
//
// A Scheduler owns a fixed-capacity table of slots. Each slot is a control
// block holding a coroutine's saved execution context, its entry function
// and argument, its lifecycle state and a private stack region. The driving
// flow creates coroutines and decides which one to resume next; a running
// coroutine hands control back by calling Yield or by returning.
//
// # Lifecycle
//
//	           Create            Resume
//	  Free ─────────────▶ Runnable ─────▶ Running ──return──▶ Free
//	                                       │   ▲
//	                                 Yield │   │ Resume
//	                                       ▼   │
//	                                     Suspended
//
// Ids are slot indexes. Create always picks the lowest free slot, so an id
// is recycled as soon as its coroutine returns.
//
// # Misuse
//
// Resume ignores ids that were never allocated, slots that are free or
// running, and nested calls made from inside a coroutine. Yield outside a
// coroutine does nothing. Callers are expected to track their own ids.
// Running out of slots is reported by Create as a capacity error.
//
// # Faults
//
// A panic escaping an entry function frees the slot and then propagates out
// of the Resume call that was running it.
//
// # Stack Regions
//
// Regions are not allocated up front with the Scheduler: a slot gets its
// StackSize bytes the first time a coroutine is created in it, so a table
// that never fills never pays for its full capacity. The region is kept
// until Close and handed to later coroutines in the same slot without
// clearing. The coroutine's
// call stack itself is a goroutine stack managed by the Go runtime, so deep
// recursion grows it rather than overrunning the region.
//
// # Thread Safety
//
// A Scheduler is NOT safe for concurrent use. Every method must be called
// from the driving flow or from the coroutine it is currently running.
package sched
