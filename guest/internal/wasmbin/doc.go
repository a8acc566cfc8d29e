// Package wasmbin encodes small core WebAssembly modules.
//
// It covers exactly what guest coroutine modules need: function types,
// function imports, function bodies and function exports. Bodies are built
// with Code, a byte buffer with one method per instruction.
//
//	m := &wasmbin.Module{
//		Types:   []wasmbin.FuncType{{}},
//		Imports: []wasmbin.Import{{Module: "uthread", Name: "yield", Type: 0}},
//	}
//	body := wasmbin.NewCode().Call(0).End()
//	m.Funcs = append(m.Funcs, wasmbin.Func{Type: 0, Body: body.Bytes()})
//	m.Exports = append(m.Exports, wasmbin.Export{Name: "run", Func: 1})
//	bin := m.Encode()
package wasmbin
