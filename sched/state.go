package sched

// State is the lifecycle state of a coroutine slot.
type State uint8

const (
	StateFree      State = iota // slot unused, awaiting reuse
	StateRunnable               // created, not yet started
	StateRunning                // currently executing
	StateSuspended              // yielded, waiting for resume
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateRunnable:
		return "runnable"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// NoCoroutine is the id reported when no coroutine is active.
const NoCoroutine = -1
