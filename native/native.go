// Package native describes the capabilities llc needs from the compiler
// infrastructure library it wraps.  The library owns every object: llc only
// ever holds opaque handles to them and passes those handles back.
package native

// Handle is an opaque identity token for a type object.  It is only ever
// compared for identity and passed back to the library that issued it.
type Handle uintptr

// ContextHandle is an opaque token for a library context.
type ContextHandle uintptr

// ModuleHandle is an opaque token for a module.
type ModuleHandle uintptr

// ValueHandle is an opaque token for a value (currently only functions).
type ValueHandle uintptr

// Message is a text buffer owned by the library.  It must be released with
// DisposeMessage once it has been read.
type Message uintptr

// RawKind is the type kind tag as reported by the library.  The numbering
// follows LLVMTypeKind.
type RawKind int

// Enumeration of raw kind tags.  Tags at or past RawScalableVector exist in
// newer libraries but are not part of the kind set llc understands.
const (
	RawVoid RawKind = iota
	RawHalf
	RawFloat
	RawDouble
	RawX86_FP80
	RawFP128
	RawPPC_FP128
	RawLabel
	RawInteger
	RawFunction
	RawStruct
	RawArray
	RawPointer
	RawVector
	RawMetadata
	RawX86_MMX
	RawToken
	RawScalableVector
	RawBFloat
	RawX86_AMX
	RawTargetExt
)

// Selector names a builtin type that a context can be queried for.
type Selector int

// Enumeration of builtin type selectors.
const (
	SelVoid Selector = iota
	SelHalf
	SelFloat
	SelDouble
	SelX86_FP80
	SelFP128
	SelPPC_FP128
	SelLabel
	SelMetadata
	SelX86_MMX
	SelToken
	SelInt1
	SelInt8
	SelInt16
	SelInt32
	SelInt64
	SelInt128
)

// -----------------------------------------------------------------------------

// Lifecycle brackets the lifetime of every other object.
type Lifecycle interface {
	// CreateContext creates a new context.
	CreateContext() ContextHandle

	// DestroyContext destroys a context and every type it owns.
	DestroyContext(c ContextHandle)
}

// TypeFactory creates or looks up type objects.  Every query is interned:
// asking twice with the same arguments in the same context returns equal
// handles.
type TypeFactory interface {
	BuiltinType(c ContextHandle, sel Selector) Handle
	IntType(c ContextHandle, width uint32) Handle
	FunctionType(ret Handle, params []Handle, varArg bool) Handle
	PointerType(elem Handle, addrSpace uint32) Handle
	ArrayType(elem Handle, n uint64) Handle
	VectorType(elem Handle, n uint32) Handle
	StructType(c ContextHandle, fields []Handle, packed bool) Handle

	// NamedStructType creates a new identified struct.  Identified structs are
	// never interned: a clashing name is made unique by the library.
	NamedStructType(c ContextHandle, name string, fields []Handle, packed bool) Handle
}

// TypeInspector answers questions about existing type objects.  Every query
// is pure.  Kind specific queries are only valid when TypeKind reported the
// matching kind.
type TypeInspector interface {
	TypeContext(t Handle) ContextHandle
	TypeKind(t Handle) RawKind
	TypeIsSized(t Handle) bool

	IntTypeWidth(t Handle) uint32

	ReturnType(t Handle) Handle
	ParamTypes(t Handle) []Handle
	IsFunctionVarArg(t Handle) bool

	// ElementType is valid for pointers, arrays and vectors.
	ElementType(t Handle) Handle
	PointerAddressSpace(t Handle) uint32
	ArrayLength(t Handle) uint64
	VectorSize(t Handle) uint32

	StructName(t Handle) string
	StructElementTypes(t Handle) []Handle
	IsPackedStruct(t Handle) bool
	IsOpaqueStruct(t Handle) bool
}

// Printer renders objects as text.  The returned messages belong to the
// library and must be handed back with DisposeMessage.
type Printer interface {
	PrintType(t Handle) Message
	PrintModule(m ModuleHandle) Message
	MessageString(msg Message) string
	DisposeMessage(msg Message)
}

// ModuleBuilder creates modules and declares functions in them.
type ModuleBuilder interface {
	CreateModule(c ContextHandle, name string) ModuleHandle
	DisposeModule(m ModuleHandle)
	ModuleName(m ModuleHandle) string
	SetTarget(m ModuleHandle, triple string)
	Target(m ModuleHandle) string

	// AddFunction declares a function of type fnType.  A clashing name is made
	// unique by the library.
	AddFunction(m ModuleHandle, name string, fnType Handle) ValueHandle

	// NamedFunction returns zero if no function has the given name.
	NamedFunction(m ModuleHandle, name string) ValueHandle

	// Functions returns the functions of the module in declaration order.
	Functions(m ModuleHandle) []ValueHandle
	FunctionName(v ValueHandle) string
	GlobalValueType(v ValueHandle) Handle
}

// Library is the complete capability contract.
type Library interface {
	Lifecycle
	TypeFactory
	TypeInspector
	Printer
	ModuleBuilder
}
