package llvm

import (
	"fmt"
	"math"

	"llc/native"
)

// Type is the "superclass" of all LLVM types: the view of a type whose kind
// is not known statically.  Every specific type (IntegerType, FunctionType,
// ...) is a Type without conversion.  Going the other way requires a kind
// query: see Downcast and TryAs.
//
// Types compare by identity.  Use Same to compare two Types regardless of the
// static view they are held in.
type Type interface {
	// Handle returns the raw handle of the type.
	Handle() native.Handle

	// Context returns the context that owns the type.
	Context() *Context

	// Kind queries the type's kind.
	Kind() TypeKind

	// Sized returns whether or not the type has a known size.
	Sized() bool

	// String renders the type as LLVM IR.
	String() string

	// Downcast queries the type's kind and returns the matching specific type.
	Downcast() Variant

	// base returns the generic view of the type.
	base() typeBase
}

// typeBase is the generic view of a type and the base of every specific type.
// It owns no memory: it is the owning context plus the raw handle.
type typeBase struct {
	ctx *Context
	h   native.Handle
}

func (tb typeBase) Handle() native.Handle {
	return tb.h
}

func (tb typeBase) Context() *Context {
	return tb.ctx
}

func (tb typeBase) Kind() TypeKind {
	tb.ctx.alive("Kind")
	return kindFromRaw(tb.ctx, "Kind", tb.ctx.lib.TypeKind(tb.h))
}

func (tb typeBase) Sized() bool {
	tb.ctx.alive("Sized")
	return tb.ctx.lib.TypeIsSized(tb.h)
}

func (tb typeBase) String() string {
	tb.ctx.alive("String")

	lib := tb.ctx.lib
	msg := lib.PrintType(tb.h)
	defer lib.DisposeMessage(msg)

	return lib.MessageString(msg)
}

func (tb typeBase) base() typeBase {
	return tb
}

// GoString makes %#v print the type the way it is written in IR.
func (tb typeBase) GoString() string {
	return fmt.Sprintf("llvm.Type(%s)", tb.String())
}

// Same returns whether a and b denote the same type.
func Same(a, b Type) bool {
	return a.base() == b.base()
}

// -----------------------------------------------------------------------------

// kindTag is implemented by the marker types that parameterize SimpleType.
type kindTag interface {
	kind() TypeKind
}

type (
	voidKind     struct{}
	halfKind     struct{}
	floatKind    struct{}
	doubleKind   struct{}
	x86FP80Kind  struct{}
	fp128Kind    struct{}
	ppcFP128Kind struct{}
	labelKind    struct{}
	metadataKind struct{}
	x86MMXKind   struct{}
	tokenKind    struct{}
)

func (voidKind) kind() TypeKind     { return VoidTypeKind }
func (halfKind) kind() TypeKind     { return HalfTypeKind }
func (floatKind) kind() TypeKind    { return FloatTypeKind }
func (doubleKind) kind() TypeKind   { return DoubleTypeKind }
func (x86FP80Kind) kind() TypeKind  { return X86_FP80TypeKind }
func (fp128Kind) kind() TypeKind    { return FP128TypeKind }
func (ppcFP128Kind) kind() TypeKind { return PPC_FP128TypeKind }
func (labelKind) kind() TypeKind    { return LabelTypeKind }
func (metadataKind) kind() TypeKind { return MetadataTypeKind }
func (x86MMXKind) kind() TypeKind   { return X86_MMXTypeKind }
func (tokenKind) kind() TypeKind    { return TokenTypeKind }

// SimpleType is a type of a kind that has no behavior beyond that of Type.
// Each kind gets its own instantiation so the kinds stay distinct.
type SimpleType[K kindTag] struct {
	typeBase
}

func (SimpleType[K]) variant() {}

// The specific types without kind specific behavior.
type (
	VoidType     = SimpleType[voidKind]     // type with no size
	HalfType     = SimpleType[halfKind]     // 16 bit floating point
	FloatType    = SimpleType[floatKind]    // 32 bit floating point
	DoubleType   = SimpleType[doubleKind]   // 64 bit floating point
	X86FP80Type  = SimpleType[x86FP80Kind]  // 80 bit floating point (X87)
	FP128Type    = SimpleType[fp128Kind]    // 128 bit floating point (112 bit mantissa)
	PPCFP128Type = SimpleType[ppcFP128Kind] // 128 bit floating point (two 64 bit halves)
	LabelType    = SimpleType[labelKind]
	MetadataType = SimpleType[metadataKind]
	X86MMXType   = SimpleType[x86MMXKind]
	TokenType    = SimpleType[tokenKind]
)

// -----------------------------------------------------------------------------

// IntegerType represents an LLVM integer type of arbitrary bit width.
type IntegerType struct {
	typeBase
}

func (IntegerType) variant() {}

// Width returns the bit width of the integer type.
func (it IntegerType) Width() uint {
	it.ctx.alive("Width")
	return uint(it.ctx.lib.IntTypeWidth(it.h))
}

// -----------------------------------------------------------------------------

// PointerType represents an LLVM pointer type.
type PointerType struct {
	typeBase
}

func (PointerType) variant() {}

// NewPointerType returns a new pointer type to elemType in address space 0.
func NewPointerType(elemType Type) PointerType {
	return NewPointerTypeInAddrSpace(elemType, 0)
}

// NewPointerTypeInAddrSpace creates a new pointer type to elemType in the
// address space addrSpace, which must fit in 32 bits.
func NewPointerTypeInAddrSpace(elemType Type, addrSpace int) PointerType {
	c := elemType.Context()
	c.alive("NewPointerType")

	if addrSpace < 0 || int64(addrSpace) > math.MaxUint32 {
		panic(fmt.Sprintf("llvm: invalid address space %d", addrSpace))
	}

	h := c.lib.PointerType(elemType.Handle(), uint32(addrSpace))
	return as[PointerType](c, "NewPointerType", h)
}

// ElemType returns the element type of the pointer.
func (pt PointerType) ElemType() Type {
	pt.ctx.alive("ElemType")
	return pt.ctx.wrap(pt.ctx.lib.ElementType(pt.h))
}

// AddrSpace returns the address space of the pointer.
func (pt PointerType) AddrSpace() int {
	pt.ctx.alive("AddrSpace")
	return int(pt.ctx.lib.PointerAddressSpace(pt.h))
}

// -----------------------------------------------------------------------------

// FunctionType represents an LLVM function type: a return type and a list of
// parameter types.
type FunctionType struct {
	typeBase
}

func (FunctionType) variant() {}

// NewFunctionType returns a new function type with no variadic argument.
func NewFunctionType(returnType Type, paramTypes ...Type) FunctionType {
	return newFunctionType(returnType, paramTypes, false)
}

// NewVarArgFunctionType returns a new variadic function type.
func NewVarArgFunctionType(returnType Type, paramTypes ...Type) FunctionType {
	return newFunctionType(returnType, paramTypes, true)
}

func newFunctionType(returnType Type, paramTypes []Type, varArg bool) FunctionType {
	c := returnType.Context()
	c.alive("NewFunctionType")

	h := c.lib.FunctionType(returnType.Handle(), c.handles("NewFunctionType", paramTypes), varArg)
	return as[FunctionType](c, "NewFunctionType", h)
}

// IsVarArg returns whether or not the function is variadic.
func (ft FunctionType) IsVarArg() bool {
	ft.ctx.alive("IsVarArg")
	return ft.ctx.lib.IsFunctionVarArg(ft.h)
}

// ReturnType returns the return type of the function.
func (ft FunctionType) ReturnType() Type {
	ft.ctx.alive("ReturnType")
	return ft.ctx.wrap(ft.ctx.lib.ReturnType(ft.h))
}

// NumParams returns the number of parameters of the function.
func (ft FunctionType) NumParams() int {
	return len(ft.paramHandles())
}

// Params returns the parameter types of the function.
func (ft FunctionType) Params() []Type {
	paramHandles := ft.paramHandles()
	if len(paramHandles) == 0 {
		return nil
	}

	params := make([]Type, len(paramHandles))
	for i, h := range paramHandles {
		params[i] = ft.ctx.wrap(h)
	}

	return params
}

func (ft FunctionType) paramHandles() []native.Handle {
	ft.ctx.alive("Params")
	return ft.ctx.lib.ParamTypes(ft.h)
}

// -----------------------------------------------------------------------------

// ArrayType represents an LLVM array type.
type ArrayType struct {
	typeBase
}

func (ArrayType) variant() {}

// NewArrayType returns a new array of n elements of type elemType.
func NewArrayType(elemType Type, n uint64) ArrayType {
	c := elemType.Context()
	c.alive("NewArrayType")

	h := c.lib.ArrayType(elemType.Handle(), n)
	return as[ArrayType](c, "NewArrayType", h)
}

// Len returns the number of elements of the array.
func (at ArrayType) Len() uint64 {
	at.ctx.alive("Len")
	return at.ctx.lib.ArrayLength(at.h)
}

// ElemType returns the element type of the array.
func (at ArrayType) ElemType() Type {
	at.ctx.alive("ElemType")
	return at.ctx.wrap(at.ctx.lib.ElementType(at.h))
}

// -----------------------------------------------------------------------------

// VectorType represents an LLVM SIMD vector type.
type VectorType struct {
	typeBase
}

func (VectorType) variant() {}

// NewVectorType returns a new vector of n elements of type elemType.  The
// length must fit in 32 bits.
func NewVectorType(elemType Type, n uint) VectorType {
	c := elemType.Context()
	c.alive("NewVectorType")

	if uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("llvm: invalid vector length %d", n))
	}

	h := c.lib.VectorType(elemType.Handle(), uint32(n))
	return as[VectorType](c, "NewVectorType", h)
}

// Len returns the number of elements of the vector.
func (vt VectorType) Len() uint {
	vt.ctx.alive("Len")
	return uint(vt.ctx.lib.VectorSize(vt.h))
}

// ElemType returns the element type of the vector.
func (vt VectorType) ElemType() Type {
	vt.ctx.alive("ElemType")
	return vt.ctx.wrap(vt.ctx.lib.ElementType(vt.h))
}

// -----------------------------------------------------------------------------

// StructType represents an LLVM struct type: either a literal struct, which is
// interned by structure, or an identified struct, which is unique by name.
type StructType struct {
	typeBase
}

func (StructType) variant() {}

// StructType returns the literal struct type with the given fields.
func (c *Context) StructType(packed bool, fields ...Type) StructType {
	c.alive("StructType")

	h := c.lib.StructType(c.c, c.handles("StructType", fields), packed)
	return as[StructType](c, "StructType", h)
}

// NamedStructType creates a new identified struct type.  If name is already
// taken in the context, the library picks a unique variation of it.
func (c *Context) NamedStructType(name string, packed bool, fields ...Type) StructType {
	c.alive("NamedStructType")

	fieldHandles := c.handles("NamedStructType", fields)
	if fieldHandles == nil {
		fieldHandles = []native.Handle{}
	}

	h := c.lib.NamedStructType(c.c, name, fieldHandles, packed)
	return as[StructType](c, "NamedStructType", h)
}

// OpaqueStructType creates a new identified struct type with no body.
func (c *Context) OpaqueStructType(name string) StructType {
	c.alive("OpaqueStructType")

	h := c.lib.NamedStructType(c.c, name, nil, false)
	return as[StructType](c, "OpaqueStructType", h)
}

// Name returns the name of an identified struct, or "" for a literal struct.
func (st StructType) Name() string {
	st.ctx.alive("Name")
	return st.ctx.lib.StructName(st.h)
}

// IsPacked returns whether the struct is packed.
func (st StructType) IsPacked() bool {
	st.ctx.alive("IsPacked")
	return st.ctx.lib.IsPackedStruct(st.h)
}

// IsOpaque returns whether the struct has no body.
func (st StructType) IsOpaque() bool {
	st.ctx.alive("IsOpaque")
	return st.ctx.lib.IsOpaqueStruct(st.h)
}

// NumFields returns the number of fields of the struct.
func (st StructType) NumFields() int {
	st.ctx.alive("NumFields")
	return len(st.ctx.lib.StructElementTypes(st.h))
}

// Fields returns the field types of the struct.
func (st StructType) Fields() []Type {
	st.ctx.alive("Fields")

	fieldHandles := st.ctx.lib.StructElementTypes(st.h)
	if len(fieldHandles) == 0 {
		return nil
	}

	fields := make([]Type, len(fieldHandles))
	for i, h := range fieldHandles {
		fields[i] = st.ctx.wrap(h)
	}

	return fields
}
