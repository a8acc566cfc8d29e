package wasmbin

// Code builds a function body one instruction at a time.
type Code struct {
	w Writer
}

// NewCode returns an empty body.
func NewCode() *Code {
	return &Code{}
}

// Bytes returns the encoded instructions.
func (c *Code) Bytes() []byte {
	return c.w.Bytes()
}

func (c *Code) op(b byte) *Code {
	c.w.Byte(b)
	return c
}

func (c *Code) opU32(b byte, v uint32) *Code {
	c.w.Byte(b)
	c.w.WriteU32(v)
	return c
}

func (c *Code) Block() *Code { return c.op(OpBlock).op(BlockVoid) }
func (c *Code) Loop() *Code { return c.op(OpLoop).op(BlockVoid) }
func (c *Code) End() *Code { return c.op(OpEnd) }
func (c *Code) Return() *Code { return c.op(OpReturn) }
func (c *Code) Drop() *Code { return c.op(OpDrop) }

func (c *Code) Br(depth uint32) *Code { return c.opU32(OpBr, depth) }
func (c *Code) BrIf(depth uint32) *Code { return c.opU32(OpBrIf, depth) }
func (c *Code) Call(fn uint32) *Code { return c.opU32(OpCall, fn) }
func (c *Code) LocalGet(idx uint32) *Code { return c.opU32(OpLocalGet, idx) }
func (c *Code) LocalSet(idx uint32) *Code { return c.opU32(OpLocalSet, idx) }
func (c *Code) LocalTee(idx uint32) *Code { return c.opU32(OpLocalTee, idx) }
func (c *Code) I64Eqz() *Code { return c.op(OpI64Eqz) }
func (c *Code) I64LtS() *Code { return c.op(OpI64LtS) }
func (c *Code) I64Add() *Code { return c.op(OpI64Add) }

func (c *Code) I32Const(v int32) *Code {
	c.w.Byte(OpI32Const)
	c.w.WriteS32(v)
	return c
}

func (c *Code) I64Const(v int64) *Code {
	c.w.Byte(OpI64Const)
	c.w.WriteS64(v)
	return c
}
