package fiber

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zuoan7/uthread"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var backends = []struct {
	name string
	new  func() uthread.Switcher
}{
	{"pull", func() uthread.Switcher { return NewPull() }},
	{"chan", func() uthread.Switcher { return NewChan() }},
}

func TestSwitcher_PingPong(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			var trace []string
			var self uthread.Context
			self = sw.Prepare(func() {
				trace = append(trace, "fiber 1")
				sw.SwitchTo(self, main)
				trace = append(trace, "fiber 2")
				sw.SwitchTo(self, main)
				trace = append(trace, "fiber 3")
			}, main)

			trace = append(trace, "main 1")
			sw.SwitchTo(main, self)
			trace = append(trace, "main 2")
			sw.SwitchTo(main, self)
			trace = append(trace, "main 3")
			sw.SwitchTo(main, self)
			trace = append(trace, "main 4")

			assert.Equal(t, []string{
				"main 1", "fiber 1",
				"main 2", "fiber 2",
				"main 3", "fiber 3",
				"main 4",
			}, trace)
		})
	}
}

func TestSwitcher_ReturnFallsThroughToLink(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			ran := false
			ctx := sw.Prepare(func() { ran = true }, main)
			sw.SwitchTo(main, ctx)

			assert.True(t, ran)
			// Discarding a finished context is a no-op.
			sw.Discard(ctx)
		})
	}
}

func TestSwitcher_PanicReachesResumer(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			ctx := sw.Prepare(func() { panic("boom") }, main)
			assert.PanicsWithValue(t, "boom", func() {
				sw.SwitchTo(main, ctx)
			})
		})
	}
}

func TestSwitcher_DiscardSuspendedRunsDefers(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			deferred := false
			resumedAfterDiscard := false
			var self uthread.Context
			self = sw.Prepare(func() {
				defer func() { deferred = true }()
				sw.SwitchTo(self, main)
				resumedAfterDiscard = true
			}, main)

			sw.SwitchTo(main, self)
			require.False(t, deferred)

			sw.Discard(self)
			assert.True(t, deferred)
			assert.False(t, resumedAfterDiscard)
		})
	}
}

func TestSwitcher_DiscardUnstarted(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			ran := false
			ctx := sw.Prepare(func() { ran = true }, main)
			sw.Discard(ctx)
			assert.False(t, ran)

			// Captured contexts have nothing to release.
			sw.Discard(main)
		})
	}
}

func TestSwitcher_ForeignContext(t *testing.T) {
	pull, ch := NewPull(), NewChan()
	assert.PanicsWithValue(t, ErrForeignContext, func() {
		pull.SwitchTo(ch.Capture(), pull.Capture())
	})
	assert.PanicsWithValue(t, ErrForeignContext, func() {
		ch.Discard(pull.Capture())
	})
}

func TestChan_Symmetric(t *testing.T) {
	sw := NewChan()
	main := sw.Capture()

	var trace []string
	var a, b uthread.Context
	a = sw.Prepare(func() {
		trace = append(trace, "a enter")
		sw.SwitchTo(a, b)
		trace = append(trace, "a leave")
	}, main)
	b = sw.Prepare(func() {
		trace = append(trace, "b enter")
		sw.SwitchTo(b, a)
		trace = append(trace, "b never")
	}, main)

	sw.SwitchTo(main, a)
	trace = append(trace, "main")

	assert.Equal(t, []string{"a enter", "b enter", "a leave", "main"}, trace)
	sw.Discard(b)
}

func TestPull_UnsupportedSwitch(t *testing.T) {
	sw := NewPull()
	main := sw.Capture()

	a := sw.Prepare(func() {}, main)
	b := sw.Prepare(func() {}, main)
	defer sw.Discard(a)
	defer sw.Discard(b)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*UnsupportedSwitchError)
		require.True(t, ok, "unexpected panic value %v", r)
		assert.Contains(t, err.Error(), "prepared context")
	}()
	sw.SwitchTo(a, b)
}

func TestSwitcher_DiscardSwallowed(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			var recovered any
			var self uthread.Context
			self = sw.Prepare(func() {
				func() {
					defer func() { recovered = recover() }()
					sw.SwitchTo(self, main)
				}()
			}, main)

			sw.SwitchTo(main, self)
			sw.Discard(self)
			assert.NotNil(t, recovered)
		})
	}
}

func TestSwitcher_Goexit(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()

			deferred, resumerContinued := false, false
			exited := make(chan struct{})
			go func() {
				defer close(exited)
				main := sw.Capture()
				ctx := sw.Prepare(func() {
					defer func() { deferred = true }()
					runtime.Goexit()
				}, main)
				sw.SwitchTo(main, ctx)
				resumerContinued = true
			}()
			<-exited

			assert.True(t, deferred)
			assert.False(t, resumerContinued, "Goexit reaches the resumer")
		})
	}
}

func TestSwitcher_DiscardPanicInCleanup(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			sw := b.new()
			main := sw.Capture()

			var self uthread.Context
			self = sw.Prepare(func() {
				defer func() { panic("cleanup failed") }()
				sw.SwitchTo(self, main)
			}, main)
			sw.SwitchTo(main, self)

			assert.PanicsWithValue(t, "cleanup failed", func() { sw.Discard(self) })
		})
	}
}
