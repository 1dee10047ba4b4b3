package llvm

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"

	"llc/native"
)

// MaxIntWidth is the largest bit width an integer type may have.
const MaxIntWidth = 1<<23 - 1

// builtin queries the library for a builtin type.
func (c *Context) builtin(op string, sel native.Selector) native.Handle {
	c.alive(op)
	return c.lib.BuiltinType(c.c, sel)
}

// VoidType returns the `void` type of the context.
func (c *Context) VoidType() VoidType {
	return as[VoidType](c, "VoidType", c.builtin("VoidType", native.SelVoid))
}

// HalfType returns the `half` type of the context.
func (c *Context) HalfType() HalfType {
	return as[HalfType](c, "HalfType", c.builtin("HalfType", native.SelHalf))
}

// FloatType returns the `float` type of the context.
func (c *Context) FloatType() FloatType {
	return as[FloatType](c, "FloatType", c.builtin("FloatType", native.SelFloat))
}

// DoubleType returns the `double` type of the context.
func (c *Context) DoubleType() DoubleType {
	return as[DoubleType](c, "DoubleType", c.builtin("DoubleType", native.SelDouble))
}

// X86FP80Type returns the `x86_fp80` type of the context.
func (c *Context) X86FP80Type() X86FP80Type {
	return as[X86FP80Type](c, "X86FP80Type", c.builtin("X86FP80Type", native.SelX86_FP80))
}

// FP128Type returns the `fp128` type of the context.
func (c *Context) FP128Type() FP128Type {
	return as[FP128Type](c, "FP128Type", c.builtin("FP128Type", native.SelFP128))
}

// PPCFP128Type returns the `ppc_fp128` type of the context.
func (c *Context) PPCFP128Type() PPCFP128Type {
	return as[PPCFP128Type](c, "PPCFP128Type", c.builtin("PPCFP128Type", native.SelPPC_FP128))
}

// LabelType returns the `label` type of the context.
func (c *Context) LabelType() LabelType {
	return as[LabelType](c, "LabelType", c.builtin("LabelType", native.SelLabel))
}

// MetadataType returns the `metadata` type of the context.
func (c *Context) MetadataType() MetadataType {
	return as[MetadataType](c, "MetadataType", c.builtin("MetadataType", native.SelMetadata))
}

// X86MMXType returns the `x86_mmx` type of the context.
func (c *Context) X86MMXType() X86MMXType {
	return as[X86MMXType](c, "X86MMXType", c.builtin("X86MMXType", native.SelX86_MMX))
}

// TokenType returns the `token` type of the context.
func (c *Context) TokenType() TokenType {
	return as[TokenType](c, "TokenType", c.builtin("TokenType", native.SelToken))
}

// Int1Type returns the `i1` type of the context.
func (c *Context) Int1Type() IntegerType {
	return as[IntegerType](c, "Int1Type", c.builtin("Int1Type", native.SelInt1))
}

// Int8Type returns the `i8` type of the context.
func (c *Context) Int8Type() IntegerType {
	return as[IntegerType](c, "Int8Type", c.builtin("Int8Type", native.SelInt8))
}

// Int16Type returns the `i16` type of the context.
func (c *Context) Int16Type() IntegerType {
	return as[IntegerType](c, "Int16Type", c.builtin("Int16Type", native.SelInt16))
}

// Int32Type returns the `i32` type of the context.
func (c *Context) Int32Type() IntegerType {
	return as[IntegerType](c, "Int32Type", c.builtin("Int32Type", native.SelInt32))
}

// Int64Type returns the `i64` type of the context.
func (c *Context) Int64Type() IntegerType {
	return as[IntegerType](c, "Int64Type", c.builtin("Int64Type", native.SelInt64))
}

// Int128Type returns the `i128` type of the context.
func (c *Context) Int128Type() IntegerType {
	return as[IntegerType](c, "Int128Type", c.builtin("Int128Type", native.SelInt128))
}

// IntType returns the integer type of the given bit width.  The width must be
// between 1 and MaxIntWidth.
func (c *Context) IntType(width uint) IntegerType {
	c.alive("IntType")

	if width == 0 || width > MaxIntWidth {
		panic(fmt.Sprintf("llvm: invalid integer width %d", width))
	}

	return as[IntegerType](c, "IntType", c.lib.IntType(c.c, uint32(width)))
}

// -----------------------------------------------------------------------------

// IntTypeOf returns the integer type with the width of the Go integer type T.
// Signedness is not part of LLVM integer types.
func IntTypeOf[T constraints.Integer](c *Context) IntegerType {
	var zero T
	return c.IntType(uint(unsafe.Sizeof(zero)) * 8)
}

// FloatTypeOf returns `float` for float32 and `double` for float64.
func FloatTypeOf[T constraints.Float](c *Context) Variant {
	var zero T
	if unsafe.Sizeof(zero) == 4 {
		return c.FloatType()
	}

	return c.DoubleType()
}

// BoolType returns the type used for Go booleans: `i1`.
func BoolType(c *Context) IntegerType {
	return c.Int1Type()
}
