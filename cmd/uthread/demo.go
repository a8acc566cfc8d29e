package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/zuoan7/uthread"
	"github.com/zuoan7/uthread/errors"
	"github.com/zuoan7/uthread/fiber"
	"github.com/zuoan7/uthread/guest"
	"github.com/zuoan7/uthread/sched"
)

// demo owns a scheduler plus the guest runtime backing ticker coroutines.
type demo struct {
	sched   *sched.Scheduler
	rt      *guest.Runtime
	ticker  *guest.Module
	calls   map[int]*guest.Call
	kinds   map[int]string
	logf    func(format string, args ...any)
	counter int
	trace   bool
}

func newSwitcher(backend string) (uthread.Switcher, error) {
	switch backend {
	case "", "pull":
		return fiber.NewPull(), nil
	case "chan":
		return fiber.NewChan(), nil
	default:
		return nil, errors.InvalidConfig("backend", backend, "want pull or chan")
	}
}

func newDemo(ctx context.Context, opts options, logf func(string, ...any)) (*demo, error) {
	sw, err := newSwitcher(opts.backend)
	if err != nil {
		return nil, err
	}
	s, err := sched.New(&sched.Config{
		Switcher:      sw,
		MaxCoroutines: opts.max,
		StackSize:     opts.stack,
	})
	if err != nil {
		return nil, err
	}

	rt, err := guest.New(ctx, s, nil)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	ticker, err := rt.Compile(ctx, guest.Ticker())
	if err != nil {
		_ = s.Close()
		_ = rt.Close(ctx)
		return nil, err
	}

	d := &demo{
		sched:  s,
		rt:     rt,
		ticker: ticker,
		calls:  make(map[int]*guest.Call),
		kinds:  make(map[int]string),
		logf:   logf,
		trace:  opts.trace,
	}
	s.Subscribe(sched.ObserverFunc(d.onEvent))
	return d, nil
}

func (d *demo) onEvent(e sched.Event) {
	if d.trace {
		d.logf("  [%s] coroutine %d", e.Type, e.ID)
	}
	if e.Type == sched.EventFinished || e.Type == sched.EventDiscarded {
		delete(d.kinds, e.ID)
	}
}

// spawnCounter creates a coroutine that bumps the shared counter steps
// times, yielding after each bump.
func (d *demo) spawnCounter(steps int) (int, error) {
	id, err := d.sched.Create(d.count, steps)
	if err != nil {
		return id, err
	}
	d.kinds[id] = "counter"
	delete(d.calls, id)
	return id, nil
}

func (d *demo) count(arg any) {
	steps := arg.(int)
	for i := 1; i <= steps; i++ {
		d.counter++
		d.logf("coroutine %d: step %d/%d, counter %d", d.sched.Active(), i, steps, d.counter)
		d.sched.Yield()
	}
}

// spawnTicker runs the guest ticker export for steps values.
func (d *demo) spawnTicker(ctx context.Context, steps int) (int, error) {
	call, err := d.ticker.Spawn(ctx, "run", uint64(steps))
	if err != nil {
		return sched.NoCoroutine, err
	}
	d.calls[call.ID] = call
	d.kinds[call.ID] = "ticker"
	return call.ID, nil
}

func (d *demo) tickerIDs() []int {
	ids := make([]int, 0, len(d.calls))
	for id := range d.calls {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// kind describes what occupies slot id.
func (d *demo) kind(id int) string {
	if k, ok := d.kinds[id]; ok {
		return k
	}
	return "-"
}

// round resumes every live slot once.
func (d *demo) round() int {
	resumed := 0
	for id := 0; id < d.sched.HighWaterMark(); id++ {
		if st, _ := d.sched.Status(id); st == sched.StateRunnable || st == sched.StateSuspended {
			d.sched.Resume(id)
			resumed++
		}
	}
	return resumed
}

func (d *demo) close(ctx context.Context) error {
	if err := d.sched.Close(); err != nil {
		return fmt.Errorf("close scheduler: %w", err)
	}
	if err := d.rt.Close(ctx); err != nil {
		return fmt.Errorf("close guest runtime: %w", err)
	}
	return nil
}
