package sched

import (
	"context"

	"go.uber.org/zap"

	"github.com/zuoan7/uthread"
	"github.com/zuoan7/uthread/errors"
)

// EntryFunc is the work a coroutine runs. It receives the argument given to
// Create. Returning from it terminates the coroutine and frees its slot.
type EntryFunc func(arg any)

// slot is a coroutine control block. Slots are reused across lifecycles.
type slot struct {
	ctx   uthread.Context
	entry EntryFunc
	arg   any
	stack []byte
	state State
}

// Scheduler multiplexes coroutines onto the flow that drives it.
type Scheduler struct {
	switcher  uthread.Switcher
	caller    uthread.Context
	log       *zap.Logger
	slots     []slot
	observers []Observer
	stackSize int
	active    int
	hwm       int
	closed    bool
}

// New creates a scheduler with all slots free. Pass nil for defaults.
func New(cfg *Config) (*Scheduler, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		switcher:  c.Switcher,
		log:       c.Logger.Named("sched"),
		slots:     make([]slot, c.MaxCoroutines),
		stackSize: c.StackSize,
		active:    NoCoroutine,
	}
	s.caller = s.switcher.Capture()
	return s, nil
}

// Create binds entry and arg to the lowest free slot and returns its id.
// The coroutine does not run until it is resumed. Create fails once every
// slot is in use or after Close.
func (s *Scheduler) Create(entry EntryFunc, arg any) (int, error) {
	if s.closed {
		return NoCoroutine, errors.Closed(errors.PhaseCreate)
	}

	id := 0
	for ; id < s.hwm; id++ {
		if s.slots[id].state == StateFree {
			break
		}
	}
	if id == s.hwm {
		if s.hwm == len(s.slots) {
			s.log.Warn("coroutine capacity exhausted", zap.Int("capacity", len(s.slots)))
			return NoCoroutine, errors.CapacityExhausted(len(s.slots))
		}
		s.hwm++
	}

	t := &s.slots[id]
	if t.stack == nil {
		t.stack = make([]byte, s.stackSize)
	}
	t.entry = entry
	t.arg = arg
	t.state = StateRunnable
	t.ctx = s.switcher.Prepare(s.trampoline, s.caller)

	s.log.Debug("coroutine created", zap.Int("id", id), zap.Int("hwm", s.hwm))
	s.notify(id, EventCreated)
	return id, nil
}

// Resume runs coroutine id until it yields or returns. Ids outside the
// allocated range, slots that are not runnable or suspended, and calls made
// while another coroutine is active are ignored.
func (s *Scheduler) Resume(id int) {
	if id < 0 || id >= s.hwm {
		return
	}
	t := &s.slots[id]
	if t.state != StateRunnable && t.state != StateSuspended {
		return
	}
	if s.active != NoCoroutine {
		s.log.Debug("nested resume ignored", zap.Int("id", id), zap.Int("active", s.active))
		return
	}

	s.active = id
	t.state = StateRunning
	s.notify(id, EventResumed)

	s.switcher.SwitchTo(s.caller, t.ctx)
}

// Yield suspends the active coroutine and returns control to its resumer.
// It is a no-op when no coroutine is active.
func (s *Scheduler) Yield() {
	id := s.active
	if id == NoCoroutine {
		return
	}

	t := &s.slots[id]
	t.state = StateSuspended
	s.active = NoCoroutine
	s.notify(id, EventYielded)

	s.switcher.SwitchTo(t.ctx, s.caller)
}

// trampoline is the first code every coroutine runs. Falling off its end
// hands control to the caller context the coroutine was prepared with.
func (s *Scheduler) trampoline() {
	id := s.active
	if id == NoCoroutine {
		return
	}
	t := &s.slots[id]
	defer s.release(id)
	t.entry(t.arg)
}

func (s *Scheduler) release(id int) {
	// Close resets discarded slots itself.
	if s.closed {
		return
	}

	t := &s.slots[id]
	t.ctx = nil
	t.entry = nil
	t.arg = nil
	t.state = StateFree
	if s.active == id {
		s.active = NoCoroutine
	}

	s.log.Debug("coroutine finished", zap.Int("id", id))
	s.notify(id, EventFinished)
}

// Finished reports whether no coroutine is active and every slot ever
// allocated is free.
func (s *Scheduler) Finished() bool {
	if s.active != NoCoroutine {
		return false
	}
	for i := 0; i < s.hwm; i++ {
		if s.slots[i].state != StateFree {
			return false
		}
	}
	return true
}

// Run resumes every live coroutine in slot order, round after round, until
// Finished reports true or ctx is done. Coroutines created while Run is in
// progress are picked up.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.active != NoCoroutine {
		return errors.InvalidState(errors.PhaseResume, "run called from inside a coroutine")
	}
	for !s.Finished() {
		if err := ctx.Err(); err != nil {
			return errors.Canceled(errors.PhaseResume, err)
		}
		for id := 0; id < s.hwm; id++ {
			s.Resume(id)
		}
	}
	return nil
}

// Close discards every unfinished coroutine and releases all stack regions.
// Suspended coroutines are unwound, so their deferred calls run. If one of
// them panics, Close finishes the teardown and then re-raises the first
// panic. Close must be called from the driving flow; calling it again is a
// no-op.
func (s *Scheduler) Close() error {
	if s.active != NoCoroutine {
		return errors.InvalidState(errors.PhaseClose, "close called from inside a coroutine")
	}
	if s.closed {
		return nil
	}
	s.closed = true

	var fault any
	discarded := 0
	for id := 0; id < s.hwm; id++ {
		t := &s.slots[id]
		if t.state != StateFree {
			if r := s.discard(t.ctx); r != nil && fault == nil {
				fault = r
			}
			discarded++
			s.notify(id, EventDiscarded)
		}
		*t = slot{}
	}

	s.log.Debug("scheduler closed", zap.Int("discarded", discarded), zap.Int("hwm", s.hwm))
	if fault != nil {
		panic(fault)
	}
	return nil
}

// discard unwinds ctx and returns what a deferred call panicked with, so the
// remaining slots are still torn down.
func (s *Scheduler) discard(ctx uthread.Context) (fault any) {
	defer func() {
		if fault = recover(); fault != nil {
			s.log.Warn("coroutine panicked while discarded", zap.Any("panic", fault))
		}
	}()
	s.switcher.Discard(ctx)
	return nil
}

// Active returns the id of the running coroutine, or NoCoroutine.
func (s *Scheduler) Active() int {
	return s.active
}

// Status returns the state of slot id. ok is false for ids that were never
// allocated.
func (s *Scheduler) Status(id int) (state State, ok bool) {
	if id < 0 || id >= s.hwm {
		return StateFree, false
	}
	return s.slots[id].state, true
}

// Len returns the number of slots that are not free.
func (s *Scheduler) Len() int {
	n := 0
	for i := 0; i < s.hwm; i++ {
		if s.slots[i].state != StateFree {
			n++
		}
	}
	return n
}

// Cap returns the slot table capacity.
func (s *Scheduler) Cap() int {
	return len(s.slots)
}

// HighWaterMark returns one past the highest slot index ever allocated.
func (s *Scheduler) HighWaterMark() int {
	return s.hwm
}

// Stack returns the private stack region of the running coroutine, or nil
// from the driving flow. The region keeps whatever the previous occupant of
// the slot left in it.
func (s *Scheduler) Stack() []byte {
	if s.active == NoCoroutine {
		return nil
	}
	return s.slots[s.active].stack
}
