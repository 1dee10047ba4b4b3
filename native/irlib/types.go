package irlib

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	"llc/native"
)

// newBuiltin creates a fresh llir object for a builtin selector.  Each context
// gets its own objects so identities never leak between contexts.
func newBuiltin(sel native.Selector) types.Type {
	switch sel {
	case native.SelVoid:
		return &types.VoidType{}
	case native.SelHalf:
		return &types.FloatType{Kind: types.FloatKindHalf}
	case native.SelFloat:
		return &types.FloatType{Kind: types.FloatKindFloat}
	case native.SelDouble:
		return &types.FloatType{Kind: types.FloatKindDouble}
	case native.SelX86_FP80:
		return &types.FloatType{Kind: types.FloatKindX86_FP80}
	case native.SelFP128:
		return &types.FloatType{Kind: types.FloatKindFP128}
	case native.SelPPC_FP128:
		return &types.FloatType{Kind: types.FloatKindPPC_FP128}
	case native.SelLabel:
		return &types.LabelType{}
	case native.SelMetadata:
		return &types.MetadataType{}
	case native.SelX86_MMX:
		return &types.MMXType{}
	case native.SelToken:
		return &types.TokenType{}
	}

	panic(fmt.Sprintf("irlib: unknown builtin selector %d", sel))
}

// selectorWidths maps the integer selectors to their bit width.
var selectorWidths = map[native.Selector]uint32{
	native.SelInt1:   1,
	native.SelInt8:   8,
	native.SelInt16:  16,
	native.SelInt32:  32,
	native.SelInt64:  64,
	native.SelInt128: 128,
}

func (l *Library) BuiltinType(c native.ContextHandle, sel native.Selector) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if width, ok := selectorWidths[sel]; ok {
		return l.intType(c, width)
	}

	ctx := l.context(c)
	if h, ok := ctx.builtins[sel]; ok {
		return h
	}

	h := l.newType(c, newBuiltin(sel))
	ctx.builtins[sel] = h
	return h
}

func (l *Library) IntType(c native.ContextHandle, width uint32) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.intType(c, width)
}

func (l *Library) intType(c native.ContextHandle, width uint32) native.Handle {
	if width == 0 {
		panic("irlib: integer types must have a non-zero width")
	}

	ctx := l.context(c)
	if h, ok := ctx.ints[width]; ok {
		return h
	}

	h := l.newType(c, types.NewInt(uint64(width)))
	ctx.ints[width] = h
	return h
}

func (l *Library) FunctionType(ret native.Handle, params []native.Handle, varArg bool) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	elems := append([]native.Handle{ret}, params...)
	c := l.sameContext(elems...)

	key := fmt.Sprintf("fn %v %t", elems, varArg)
	return l.intern(c, key, func() native.Handle {
		paramTypes := make([]types.Type, len(params))
		for i, p := range params {
			paramTypes[i] = l.entry(p).typ
		}

		ft := types.NewFunc(l.entry(ret).typ, paramTypes...)
		ft.Variadic = varArg
		return l.newType(c, ft, elems...)
	})
}

func (l *Library) PointerType(elem native.Handle, addrSpace uint32) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.sameContext(elem)

	key := fmt.Sprintf("ptr %d %d", elem, addrSpace)
	return l.intern(c, key, func() native.Handle {
		pt := types.NewPointer(l.entry(elem).typ)
		pt.AddrSpace = types.AddrSpace(addrSpace)
		return l.newType(c, pt, elem)
	})
}

func (l *Library) ArrayType(elem native.Handle, n uint64) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.sameContext(elem)

	key := fmt.Sprintf("array %d %d", elem, n)
	return l.intern(c, key, func() native.Handle {
		return l.newType(c, types.NewArray(n, l.entry(elem).typ), elem)
	})
}

func (l *Library) VectorType(elem native.Handle, n uint32) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.sameContext(elem)

	key := fmt.Sprintf("vector %d %d", elem, n)
	return l.intern(c, key, func() native.Handle {
		return l.newType(c, types.NewVector(uint64(n), l.entry(elem).typ), elem)
	})
}

func (l *Library) StructType(c native.ContextHandle, fields []native.Handle, packed bool) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkFields(c, fields)

	key := fmt.Sprintf("struct %v %t", fields, packed)
	return l.intern(c, key, func() native.Handle {
		st := types.NewStruct(l.fieldTypes(fields)...)
		st.Packed = packed
		return l.newType(c, st, fields...)
	})
}

func (l *Library) NamedStructType(c native.ContextHandle, name string, fields []native.Handle, packed bool) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := l.context(c)
	l.checkFields(c, fields)

	st := &types.StructType{
		TypeName: uniqueName(ctx.names, name),
		Packed:   packed,
		Fields:   l.fieldTypes(fields),
		Opaque:   fields == nil,
	}

	return l.newType(c, st, fields...)
}

// checkFields verifies that every field belongs to c.
func (l *Library) checkFields(c native.ContextHandle, fields []native.Handle) {
	for _, f := range fields {
		if e := l.entry(f); e.ctx != c {
			panic(fmt.Sprintf("irlib: field type %d belongs to context %d, expected %d", f, e.ctx, c))
		}
	}
}

func (l *Library) fieldTypes(fields []native.Handle) []types.Type {
	fieldTypes := make([]types.Type, len(fields))
	for i, f := range fields {
		fieldTypes[i] = l.entry(f).typ
	}

	return fieldTypes
}

// -----------------------------------------------------------------------------

func (l *Library) TypeContext(t native.Handle) native.ContextHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.entry(t).ctx
}

func (l *Library) TypeKind(t native.Handle) native.RawKind {
	l.mu.Lock()
	defer l.mu.Unlock()

	return rawKindOf(l.entry(t).typ)
}

// rawKindOf classifies an llir type.
func rawKindOf(typ types.Type) native.RawKind {
	switch v := typ.(type) {
	case *types.VoidType:
		return native.RawVoid
	case *types.FloatType:
		switch v.Kind {
		case types.FloatKindHalf:
			return native.RawHalf
		case types.FloatKindFloat:
			return native.RawFloat
		case types.FloatKindDouble:
			return native.RawDouble
		case types.FloatKindX86_FP80:
			return native.RawX86_FP80
		case types.FloatKindFP128:
			return native.RawFP128
		case types.FloatKindPPC_FP128:
			return native.RawPPC_FP128
		}

		return native.RawBFloat
	case *types.LabelType:
		return native.RawLabel
	case *types.IntType:
		return native.RawInteger
	case *types.FuncType:
		return native.RawFunction
	case *types.StructType:
		return native.RawStruct
	case *types.ArrayType:
		return native.RawArray
	case *types.PointerType:
		return native.RawPointer
	case *types.VectorType:
		return native.RawVector
	case *types.MetadataType:
		return native.RawMetadata
	case *types.MMXType:
		return native.RawX86_MMX
	case *types.TokenType:
		return native.RawToken
	}

	return native.RawTargetExt
}

func (l *Library) TypeIsSized(t native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.sized(t)
}

func (l *Library) sized(t native.Handle) bool {
	e := l.entry(t)

	switch v := e.typ.(type) {
	case *types.VoidType, *types.LabelType, *types.MetadataType, *types.TokenType, *types.FuncType:
		return false
	case *types.ArrayType, *types.VectorType:
		return l.sized(e.elems[0])
	case *types.StructType:
		if v.Opaque {
			return false
		}

		for _, f := range e.elems {
			if !l.sized(f) {
				return false
			}
		}
	}

	return true
}

func (l *Library) IntTypeWidth(t native.Handle) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return uint32(l.typeAs(t, native.RawInteger).(*types.IntType).BitSize)
}

func (l *Library) ReturnType(t native.Handle) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.typeAs(t, native.RawFunction)
	return l.entry(t).elems[0]
}

func (l *Library) ParamTypes(t native.Handle) []native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.typeAs(t, native.RawFunction)
	return append([]native.Handle(nil), l.entry(t).elems[1:]...)
}

func (l *Library) IsFunctionVarArg(t native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.typeAs(t, native.RawFunction).(*types.FuncType).Variadic
}

func (l *Library) ElementType(t native.Handle) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch k := rawKindOf(l.entry(t).typ); k {
	case native.RawPointer, native.RawArray, native.RawVector:
		return l.entry(t).elems[0]
	default:
		panic(fmt.Sprintf("irlib: type %d of kind %d has no element type", t, k))
	}
}

func (l *Library) PointerAddressSpace(t native.Handle) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return uint32(l.typeAs(t, native.RawPointer).(*types.PointerType).AddrSpace)
}

func (l *Library) ArrayLength(t native.Handle) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.typeAs(t, native.RawArray).(*types.ArrayType).Len
}

func (l *Library) VectorSize(t native.Handle) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return uint32(l.typeAs(t, native.RawVector).(*types.VectorType).Len)
}

func (l *Library) StructName(t native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.typeAs(t, native.RawStruct).(*types.StructType).TypeName
}

func (l *Library) StructElementTypes(t native.Handle) []native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.typeAs(t, native.RawStruct)
	return append([]native.Handle(nil), l.entry(t).elems...)
}

func (l *Library) IsPackedStruct(t native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.typeAs(t, native.RawStruct).(*types.StructType).Packed
}

func (l *Library) IsOpaqueStruct(t native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.typeAs(t, native.RawStruct).(*types.StructType).Opaque
}

// typeAs returns the llir type of t, panicking if it is not of kind k.
func (l *Library) typeAs(t native.Handle, k native.RawKind) types.Type {
	typ := l.entry(t).typ
	if got := rawKindOf(typ); got != k {
		panic(fmt.Sprintf("irlib: type %d has kind %d, expected %d", t, got, k))
	}

	return typ
}
