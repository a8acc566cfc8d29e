package fiber

import (
	"runtime"

	"github.com/zuoan7/uthread"
)

// Chan is a Switcher that parks every context on its own unbuffered channel.
type Chan struct{}

// NewChan returns a goroutine hand-off Switcher.
func NewChan() *Chan {
	return &Chan{}
}

type signal struct {
	value     any
	discard   bool
	panicking bool
	goexit    bool
}

type chanContext struct {
	wake  chan signal
	done  chan struct{}
	link  *chanContext
	entry func()
	// fault is how the entry ended while being discarded; read after done.
	fault      signal
	started    bool
	discarding bool
}

func (c *Chan) Capture() uthread.Context {
	return &chanContext{
		wake:    make(chan signal),
		done:    make(chan struct{}),
		started: true,
	}
}

func (c *Chan) Prepare(entry func(), link uthread.Context) uthread.Context {
	return &chanContext{
		wake:  make(chan signal),
		done:  make(chan struct{}),
		link:  mustChan(link),
		entry: entry,
	}
}

func (c *Chan) SwitchTo(save, restore uthread.Context) {
	from, to := mustChan(save), mustChan(restore)
	if !to.started {
		to.started = true
		go to.run()
	} else {
		to.wake <- signal{}
	}

	sig := <-from.wake
	if sig.discard {
		panic(errDiscarded)
	}
	sig.raise()
}

func (s signal) raise() {
	switch {
	case s.panicking:
		panic(s.value)
	case s.goexit:
		runtime.Goexit()
	}
}

func (c *Chan) Discard(ctx uthread.Context) {
	cc := mustChan(ctx)
	if !cc.started || cc.link == nil {
		return
	}
	cc.discarding = true
	select {
	case cc.wake <- signal{discard: true}:
		<-cc.done
		cc.fault.raise()
	case <-cc.done:
	}
}

func (c *chanContext) run() {
	defer close(c.done)

	returned := false
	defer func() {
		var sig signal
		switch r := recover(); {
		case r != nil && isDiscard(r):
			return
		case r != nil:
			sig = signal{value: r, panicking: true}
		case !returned:
			// runtime.Goexit; it carries on once this function returns.
			sig = signal{goexit: true}
		}

		// The entry may swallow the unwinding panic (wazero turns host
		// function panics into call errors); nobody waits on the link then.
		if c.discarding {
			c.fault = sig
			return
		}
		c.link.wake <- sig
	}()

	c.entry()
	returned = true
}

func mustChan(ctx uthread.Context) *chanContext {
	c, ok := ctx.(*chanContext)
	if !ok {
		panic(ErrForeignContext)
	}
	return c
}

var _ uthread.Switcher = (*Chan)(nil)
