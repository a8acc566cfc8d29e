package fiber

import (
	"iter"

	"github.com/zuoan7/uthread"
)

// Pull is a Switcher built on iter.Pull.
type Pull struct{}

// NewPull returns an iter.Pull backed Switcher.
func NewPull() *Pull {
	return &Pull{}
}

type pullContext struct {
	link  *pullContext
	entry func()
	next  func() (struct{}, bool)
	stop  func()
	yield func(struct{}) bool
	// captured contexts have no next/stop
}

func (c *pullContext) name() string {
	if c.next == nil {
		return "captured context"
	}
	return "prepared context"
}

func (p *Pull) Capture() uthread.Context {
	return &pullContext{}
}

func (p *Pull) Prepare(entry func(), link uthread.Context) uthread.Context {
	c := &pullContext{
		link:  mustPull(link),
		entry: entry,
	}
	c.next, c.stop = iter.Pull(c.run)
	return c
}

func (c *pullContext) run(yield func(struct{}) bool) {
	c.yield = yield
	defer func() {
		if r := recover(); r != nil && !isDiscard(r) {
			panic(r)
		}
	}()
	c.entry()
}

func (p *Pull) SwitchTo(save, restore uthread.Context) {
	from, to := mustPull(save), mustPull(restore)
	switch {
	case to.next != nil && to.link == from:
		// A finished fiber reports ok == false; control is back either way.
		to.next()
	case from.next != nil && from.link == to:
		if !from.yield(struct{}{}) {
			panic(errDiscarded)
		}
	default:
		panic(&UnsupportedSwitchError{From: from.name(), To: to.name()})
	}
}

func (p *Pull) Discard(ctx uthread.Context) {
	c := mustPull(ctx)
	if c.stop != nil {
		c.stop()
	}
}

func mustPull(ctx uthread.Context) *pullContext {
	c, ok := ctx.(*pullContext)
	if !ok {
		panic(ErrForeignContext)
	}
	return c
}

var _ uthread.Switcher = (*Pull)(nil)
