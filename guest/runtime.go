package guest

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/zuoan7/uthread/errors"
	"github.com/zuoan7/uthread/sched"
)

// HostModule is the import module name guests use for scheduler calls.
const HostModule = "uthread"

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Runtime compiles guest modules and spawns their exports as coroutines.
type Runtime struct {
	runtime wazero.Runtime
	sched   *sched.Scheduler
	log     *zap.Logger
	calls   map[int]*Call
	seq     uint64
}

// Call tracks one spawned guest export.
type Call struct {
	Err     error
	Export  string
	Args    []uint64
	Emitted []uint64
	Results []uint64
	ID      int
	Done    bool
}

// New creates a runtime whose host functions drive s.
func New(ctx context.Context, s *sched.Scheduler, cfg *Config) (*Runtime, error) {
	if s == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "nil scheduler")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	r := &Runtime{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		sched:   s,
		log:     Logger().Named("guest"),
		calls:   make(map[int]*Call),
	}

	if err := r.instantiateHost(ctx); err != nil {
		_ = r.runtime.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	return r, nil
}

func (r *Runtime) instantiateHost(ctx context.Context) error {
	builder := r.runtime.NewHostModuleBuilder(HostModule)

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, _ []uint64) {
			r.sched.Yield()
		}), nil, nil).
		Export("yield")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			if c, ok := r.calls[r.sched.Active()]; ok {
				c.Emitted = append(c.Emitted, stack[0])
			}
		}), []api.ValueType{api.ValueTypeI64}, nil).
		Export("emit")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(r.sched.Active()))
		}), nil, []api.ValueType{api.ValueTypeI32}).
		Export("id")

	_, err := builder.Instantiate(ctx)
	return err
}

// Close releases the wazero runtime. Close the scheduler first.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Module is a compiled guest module.
type Module struct {
	rt       *Runtime
	compiled wazero.CompiledModule
}

// Compile validates and compiles a core WebAssembly module.
func (r *Runtime) Compile(ctx context.Context, bin []byte) (*Module, error) {
	compiled, err := r.runtime.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	return &Module{rt: r, compiled: compiled}, nil
}

// Exports returns the sorted names of the module's exported functions.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spawn creates a coroutine that calls export with args. The call does not
// start until the coroutine is resumed.
func (m *Module) Spawn(ctx context.Context, export string, args ...uint64) (*Call, error) {
	def, ok := m.compiled.ExportedFunctions()[export]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCreate, "export", export)
	}
	if want := len(def.ParamTypes()); want != len(args) {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidInput).
			Value(len(args)).
			Detail("export %q takes %d params, got %d", export, want, len(args)).
			Build()
	}

	call := &Call{Export: export, Args: args}
	id, err := m.rt.sched.Create(m.run, &invocation{ctx: ctx, call: call})
	if err != nil {
		return nil, err
	}
	call.ID = id
	return call, nil
}

type invocation struct {
	ctx  context.Context
	call *Call
}

func (m *Module) run(arg any) {
	inv := arg.(*invocation)
	r, call := m.rt, inv.call

	r.calls[call.ID] = call
	defer func() {
		delete(r.calls, call.ID)
		call.Done = true
	}()

	r.seq++
	cfg := wazero.NewModuleConfig().WithName(fmt.Sprintf("guest-%d", r.seq))
	mod, err := r.runtime.InstantiateModule(inv.ctx, m.compiled, cfg)
	if err != nil {
		call.Err = errors.Instantiation(err)
		return
	}
	defer mod.Close(inv.ctx)

	r.log.Debug("guest call started", zap.Int("id", call.ID), zap.String("export", call.Export))
	results, err := mod.ExportedFunction(call.Export).Call(inv.ctx, call.Args...)
	if err != nil {
		call.Err = errors.Wrap(errors.PhaseRuntime, errors.KindInvalidState, err, "call "+call.Export)
		r.log.Debug("guest call failed", zap.Int("id", call.ID), zap.Error(err))
		return
	}
	call.Results = results
	r.log.Debug("guest call returned", zap.Int("id", call.ID), zap.Int("emitted", len(call.Emitted)))
}
