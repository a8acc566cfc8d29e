// Package guest runs WebAssembly functions as coroutines.
//
// A Runtime wraps a wazero runtime bound to one sched.Scheduler. It provides
// the host module "uthread" that guest modules import to cooperate with the
// scheduler:
//
//	(import "uthread" "yield" (func))           suspend the calling coroutine
//	(import "uthread" "emit"  (func (param i64))) record a value on the Call
//	(import "uthread" "id"    (func (result i32))) id of the calling coroutine
//
// Every Spawn creates a coroutine that instantiates a fresh copy of the
// module and calls one export. When the guest calls yield, the whole wazero
// call is parked with the coroutine and picks up where it left off on the
// next Resume.
//
//	s, _ := sched.New(nil)
//	rt, _ := guest.New(ctx, s, nil)
//	mod, _ := rt.Compile(ctx, guest.Ticker())
//	call, _ := mod.Spawn(ctx, "run", 3)
//	_ = s.Run(ctx)
//	fmt.Println(call.Emitted) // [0 1 2]
//
// Close the scheduler before the Runtime so that suspended guest calls are
// unwound while their module instances are still valid.
package guest
