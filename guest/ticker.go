package guest

import "github.com/zuoan7/uthread/guest/internal/wasmbin"

// Ticker returns a guest module exporting two functions:
//
//	run(n i64)     emits 0..n-1, yielding after each value
//	self() i32     returns the id of the calling coroutine
//
// A run call needs n+1 resumes to complete.
func Ticker() []byte {
	const (
		fnYield = iota
		fnEmit
		fnID
		fnRun
		fnSelf
	)
	const (
		localN = 0
		localI = 1
	)

	run := wasmbin.NewCode().
		Block().
		LocalGet(localN).I64Eqz().BrIf(0).
		Loop().
		LocalGet(localI).Call(fnEmit).
		Call(fnYield).
		LocalGet(localI).I64Const(1).I64Add().LocalTee(localI).
		LocalGet(localN).I64LtS().BrIf(0).
		End().
		End().
		End()

	self := wasmbin.NewCode().Call(fnID).End()

	m := &wasmbin.Module{
		Types: []wasmbin.FuncType{
			{},
			{Params: []wasmbin.ValType{wasmbin.ValI64}},
			{Results: []wasmbin.ValType{wasmbin.ValI32}},
		},
		Imports: []wasmbin.Import{
			{Module: HostModule, Name: "yield", Type: 0},
			{Module: HostModule, Name: "emit", Type: 1},
			{Module: HostModule, Name: "id", Type: 2},
		},
		Funcs: []wasmbin.Func{
			{Type: 1, Locals: []wasmbin.Local{{Count: 1, Type: wasmbin.ValI64}}, Body: run.Bytes()},
			{Type: 2, Body: self.Bytes()},
		},
		Exports: []wasmbin.Export{
			{Name: "run", Func: fnRun},
			{Name: "self", Func: fnSelf},
		},
	}
	return m.Encode()
}
