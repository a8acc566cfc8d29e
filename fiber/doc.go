// Package fiber provides uthread.Switcher implementations.
//
// Go does not expose raw stack switching, so both backends give every
// prepared context its own goroutine and hand a single baton between them.
// Exactly one of the participating flows runs at any time; the rest are
// parked inside SwitchTo.
//
//	NewPull()  iter.Pull based. The runtime switches directly between the
//	           two goroutines without going through the scheduler, which
//	           makes it the fastest option. Only fiber <-> link switches are
//	           supported, which is all sched.Scheduler ever performs.
//
//	NewChan()  Goroutine + unbuffered channel hand-off. Fully symmetric:
//	           any captured or prepared context may switch to any other.
//
// # Termination
//
// When the entry of a prepared context returns, control passes to its link.
// A panic escaping the entry is re-raised in the flow that receives control,
// so the driver observes it from its SwitchTo call. An entry that calls
// runtime.Goexit makes the receiving flow exit the same way.
//
// Discard unwinds a suspended context by panicking with an internal sentinel
// from its pending SwitchTo. Deferred calls in the coroutine run. An entry
// that recovers the sentinel must return without switching again. A panic
// raised by a deferred call during the unwind comes out of Discard.
//
// # Stacks
//
// Call stacks of prepared contexts are ordinary goroutine stacks owned and
// grown by the Go runtime.
package fiber
