package guest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	"github.com/zuoan7/uthread"
	"github.com/zuoan7/uthread/errors"
	"github.com/zuoan7/uthread/fiber"
	"github.com/zuoan7/uthread/sched"
)

var backends = []struct {
	name string
	new  func() uthread.Switcher
}{
	{"pull", func() uthread.Switcher { return fiber.NewPull() }},
	{"chan", func() uthread.Switcher { return fiber.NewChan() }},
}

type fixture struct {
	sched *sched.Scheduler
	rt    *Runtime
	mod   *Module
}

func newFixture(t *testing.T, sw uthread.Switcher) *fixture {
	t.Helper()
	ctx := context.Background()

	s, err := sched.New(&sched.Config{Switcher: sw, MaxCoroutines: 8})
	require.NoError(t, err)
	rt, err := New(ctx, s, nil)
	require.NoError(t, err)
	mod, err := rt.Compile(ctx, Ticker())
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, s.Close())
		assert.NoError(t, rt.Close(ctx))
	})
	return &fixture{sched: s, rt: rt, mod: mod}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, f *fixture)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, newFixture(t, b.new()))
		})
	}
}

func requireKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, kind, e.Kind)
}

func TestModule_Exports(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		assert.Equal(t, []string{"run", "self"}, f.mod.Exports())
	})
}

func TestTicker_Run(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		call, err := f.mod.Spawn(context.Background(), "run", 3)
		require.NoError(t, err)
		assert.Empty(t, call.Emitted, "call starts on first resume")

		f.sched.Resume(call.ID)
		f.sched.Resume(call.ID)
		assert.Equal(t, []uint64{0, 1}, call.Emitted)
		assert.False(t, call.Done)
		state, _ := f.sched.Status(call.ID)
		assert.Equal(t, sched.StateSuspended, state)

		f.sched.Resume(call.ID)
		assert.False(t, call.Done)
		f.sched.Resume(call.ID)

		assert.True(t, call.Done)
		assert.NoError(t, call.Err)
		assert.Equal(t, []uint64{0, 1, 2}, call.Emitted)
		assert.Empty(t, call.Results)
		assert.True(t, f.sched.Finished())
	})
}

func TestTicker_RunZero(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		call, err := f.mod.Spawn(context.Background(), "run", 0)
		require.NoError(t, err)

		f.sched.Resume(call.ID)
		assert.True(t, call.Done)
		assert.Empty(t, call.Emitted)
	})
}

func TestTicker_Interleaved(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		a, err := f.mod.Spawn(ctx, "run", 2)
		require.NoError(t, err)
		b, err := f.mod.Spawn(ctx, "run", 4)
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)

		require.NoError(t, f.sched.Run(ctx))

		assert.Equal(t, []uint64{0, 1}, a.Emitted)
		assert.Equal(t, []uint64{0, 1, 2, 3}, b.Emitted)
		assert.True(t, a.Done)
		assert.True(t, b.Done)
	})
}

func TestTicker_Self(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		_, err := f.sched.Create(func(any) {}, nil)
		require.NoError(t, err)

		call, err := f.mod.Spawn(context.Background(), "self")
		require.NoError(t, err)
		require.Equal(t, 1, call.ID)

		f.sched.Resume(call.ID)
		require.True(t, call.Done)
		require.NoError(t, call.Err)
		require.Len(t, call.Results, 1)
		assert.Equal(t, int32(1), api.DecodeI32(call.Results[0]))
	})
}

func TestTicker_DiscardSuspended(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		call, err := f.mod.Spawn(context.Background(), "run", 10)
		require.NoError(t, err)

		f.sched.Resume(call.ID)
		f.sched.Resume(call.ID)
		require.False(t, call.Done)

		require.NoError(t, f.sched.Close())
		assert.True(t, call.Done, "discarded guest call unwinds")
		assert.Error(t, call.Err)
		assert.Equal(t, []uint64{0, 1}, call.Emitted)
	})
}

func TestModule_SpawnErrors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		_, err := f.mod.Spawn(ctx, "missing")
		requireKind(t, err, errors.KindNotFound)

		_, err = f.mod.Spawn(ctx, "run")
		requireKind(t, err, errors.KindInvalidInput)

		_, err = f.mod.Spawn(ctx, "self", 1)
		requireKind(t, err, errors.KindInvalidInput)

		assert.Equal(t, 0, f.sched.Len(), "failed spawns take no slot")
	})
}

func TestModule_SpawnCapacity(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		for i := 0; i < f.sched.Cap(); i++ {
			_, err := f.mod.Spawn(ctx, "run", 1)
			require.NoError(t, err)
		}
		_, err := f.mod.Spawn(ctx, "run", 1)
		requireKind(t, err, errors.KindCapacity)
	})
}

func TestRuntime_Compile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		_, err := f.rt.Compile(context.Background(), []byte("not wasm"))
		requireKind(t, err, errors.KindInvalidData)
	})
}

func TestNew_NilScheduler(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	requireKind(t, err, errors.KindInvalidInput)
}

func TestNew_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	s, err := sched.New(nil)
	require.NoError(t, err)
	rt, err := New(ctx, s, &Config{MemoryLimitPages: 16})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, rt.Close(ctx))
}
