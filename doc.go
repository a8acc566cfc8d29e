// Package uthread provides cooperative, stackful coroutines ("userland
// threads") for Go.
//
// A single driving flow multiplexes many logical threads of execution. Each
// one runs until it voluntarily yields, at which point control returns to
// whoever resumed it. There is no preemption and no run queue: the driver
// decides which coroutine to resume next.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	uthread/             Root package with the execution-context capability
//	├── fiber/           Switcher implementations (iter.Pull, goroutine hand-off)
//	├── sched/           Scheduler: slot table, lifecycle, resume/yield
//	├── guest/           WebAssembly entry functions backed by wazero
//	├── errors/          Structured error types
//	└── cmd/uthread/     Demo driver with an interactive slot view
//
// # Quick Start
//
//	s, err := sched.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	counter := 0
//	id, _ := s.Create(func(arg any) {
//	    n := arg.(*int)
//	    *n++
//	    s.Yield()
//	    *n++
//	}, &counter)
//
//	s.Resume(id) // counter == 1, coroutine suspended
//	s.Resume(id) // counter == 2, coroutine finished
//	s.Finished() // true
//
// # Execution Contexts
//
// The scheduler never switches stacks itself. It drives a [Switcher], which
// captures the driver's context, prepares fresh contexts for coroutines and
// swaps between them. Every prepared context is linked to the driver's
// context: when its entry function returns, control passes to the link
// without any further bookkeeping.
//
// # Thread Safety
//
// A Scheduler is NOT safe for concurrent use. All operations must be issued
// from the driving flow or from the coroutine it is currently running.
package uthread
