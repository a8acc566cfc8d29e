package wasmbin

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs, in the order they must appear.
const (
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionExport   byte = 7
	SectionCode     byte = 10
)

// KindFunc is the import/export descriptor for functions.
const KindFunc byte = 0

// FuncTypeByte prefixes a function type.
const FuncTypeByte byte = 0x60

// ValType is a value type encoding.
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

// BlockVoid is the empty block type.
const BlockVoid byte = 0x40

// Opcodes used by Code.
const (
	OpBlock    byte = 0x02
	OpLoop     byte = 0x03
	OpEnd      byte = 0x0B
	OpBr       byte = 0x0C
	OpBrIf     byte = 0x0D
	OpReturn   byte = 0x0F
	OpCall     byte = 0x10
	OpDrop     byte = 0x1A
	OpLocalGet byte = 0x20
	OpLocalSet byte = 0x21
	OpLocalTee byte = 0x22
	OpI32Const byte = 0x41
	OpI64Const byte = 0x42
	OpI64Eqz   byte = 0x50
	OpI64LtS   byte = 0x53
	OpI64Add   byte = 0x7C
)
