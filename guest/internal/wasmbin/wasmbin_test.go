package wasmbin

import (
	"bytes"
	"testing"
)

func TestWriter_LEB128(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  []byte
	}{
		{"u32 zero", func(w *Writer) { w.WriteU32(0) }, []byte{0x00}},
		{"u32 127", func(w *Writer) { w.WriteU32(127) }, []byte{0x7f}},
		{"u32 128", func(w *Writer) { w.WriteU32(128) }, []byte{0x80, 0x01}},
		{"u32 624485", func(w *Writer) { w.WriteU32(624485) }, []byte{0xe5, 0x8e, 0x26}},
		{"s64 -1", func(w *Writer) { w.WriteS64(-1) }, []byte{0x7f}},
		{"s64 63", func(w *Writer) { w.WriteS64(63) }, []byte{0x3f}},
		{"s64 64", func(w *Writer) { w.WriteS64(64) }, []byte{0xc0, 0x00}},
		{"s64 -123456", func(w *Writer) { w.WriteS64(-123456) }, []byte{0xc0, 0xbb, 0x78}},
		{"s32 -64", func(w *Writer) { w.WriteS32(-64) }, []byte{0x40}},
		{"name", func(w *Writer) { w.WriteName("run") }, []byte{0x03, 'r', 'u', 'n'}},
		{"u32 le", func(w *Writer) { w.WriteU32LE(Magic) }, []byte{0x00, 0x61, 0x73, 0x6d}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.write(w)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("got % x, want % x", w.Bytes(), tt.want)
			}
		})
	}
}

func TestModule_EncodeEmpty(t *testing.T) {
	got := (&Module{}).Encode()
	want := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestModule_Encode(t *testing.T) {
	m := &Module{
		Types:   []FuncType{{}},
		Imports: []Import{{Module: "m", Name: "f", Type: 0}},
		Funcs:   []Func{{Type: 0, Body: NewCode().Call(0).End().Bytes()}},
		Exports: []Export{{Name: "run", Func: 1}},
	}

	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type
		0x02, 0x07, 0x01, 0x01, 'm', 0x01, 'f', 0x00, 0x00, // import
		0x03, 0x02, 0x01, 0x00, // function
		0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x01, // export
		0x0a, 0x06, 0x01, 0x04, 0x00, 0x10, 0x00, 0x0b, // code
	}

	got := m.Encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("got  % x\nwant % x", got, want)
	}
}

func TestModule_EncodeLocals(t *testing.T) {
	m := &Module{
		Types: []FuncType{{Params: []ValType{ValI64}, Results: []ValType{ValI64}}},
		Funcs: []Func{{
			Type:   0,
			Locals: []Local{{Count: 2, Type: ValI64}},
			Body:   NewCode().LocalGet(0).I64Const(1).I64Add().End().Bytes(),
		}},
	}

	got := m.Encode()
	code := []byte{0x0a, 0x0b, 0x01, 0x09, 0x01, 0x02, 0x7e, 0x20, 0x00, 0x42, 0x01, 0x7c, 0x0b}
	if !bytes.HasSuffix(got, code) {
		t.Fatalf("code section mismatch: % x", got)
	}
	typ := []byte{0x01, 0x06, 0x01, 0x60, 0x01, 0x7e, 0x01, 0x7e}
	if !bytes.Contains(got, typ) {
		t.Fatalf("type section mismatch: % x", got)
	}
}

func TestCode_ControlFlow(t *testing.T) {
	got := NewCode().Block().Loop().Br(1).BrIf(0).End().End().Return().Drop().Bytes()
	want := []byte{0x02, 0x40, 0x03, 0x40, 0x0c, 0x01, 0x0d, 0x00, 0x0b, 0x0b, 0x0f, 0x1a}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}
