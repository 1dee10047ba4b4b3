package llvm

import "fmt"

// Variant is a Type whose kind is known statically.  The set of variants is
// closed: it is implemented exactly by VoidType, HalfType, FloatType,
// DoubleType, X86FP80Type, FP128Type, PPCFP128Type, LabelType, IntegerType,
// FunctionType, StructType, ArrayType, PointerType, VectorType, MetadataType,
// X86MMXType and TokenType.  Use a type switch to dispatch on it:
//
//	switch t := typ.Downcast().(type) {
//	case llvm.IntegerType:
//		fmt.Println(t.Width())
//	case llvm.FunctionType:
//		fmt.Println(t.ReturnType())
//	}
type Variant interface {
	Type

	variant()
}

// variantCtor builds the specific type of one kind from a generic view.
type variantCtor func(typeBase) Variant

// variantEntry pairs a kind with the constructor of its specific type.
type variantEntry struct {
	kind TypeKind
	ctor variantCtor
}

func simple[K kindTag]() variantEntry {
	var k K
	return variantEntry{k.kind(), func(tb typeBase) Variant { return SimpleType[K]{tb} }}
}

func kinded(kind TypeKind, ctor variantCtor) variantEntry {
	return variantEntry{kind, ctor}
}

// variants maps every kind to its constructor.
var variants = newVariantTable(
	simple[voidKind](),
	simple[halfKind](),
	simple[floatKind](),
	simple[doubleKind](),
	simple[x86FP80Kind](),
	simple[fp128Kind](),
	simple[ppcFP128Kind](),
	simple[labelKind](),
	kinded(IntegerTypeKind, func(tb typeBase) Variant { return IntegerType{tb} }),
	kinded(FunctionTypeKind, func(tb typeBase) Variant { return FunctionType{tb} }),
	kinded(StructTypeKind, func(tb typeBase) Variant { return StructType{tb} }),
	kinded(ArrayTypeKind, func(tb typeBase) Variant { return ArrayType{tb} }),
	kinded(PointerTypeKind, func(tb typeBase) Variant { return PointerType{tb} }),
	kinded(VectorTypeKind, func(tb typeBase) Variant { return VectorType{tb} }),
	simple[metadataKind](),
	simple[x86MMXKind](),
	simple[tokenKind](),
)

// newVariantTable builds the dispatch table.  Every kind must be covered
// exactly once.
func newVariantTable(entries ...variantEntry) (table [numTypeKinds]variantCtor) {
	for _, e := range entries {
		if table[e.kind] != nil {
			panic(fmt.Sprintf("llvm: kind %s has two variants", e.kind))
		}

		table[e.kind] = e.ctor
	}

	for k, ctor := range table {
		if ctor == nil {
			panic(fmt.Sprintf("llvm: kind %s has no variant", TypeKind(k)))
		}
	}

	return
}

// Downcast queries the kind of the type and returns the specific type of that
// kind.  The result is never the generic view itself.
func (tb typeBase) Downcast() Variant {
	tb.ctx.alive("Downcast")
	return variants[kindFromRaw(tb.ctx, "Downcast", tb.ctx.lib.TypeKind(tb.h))](tb)
}

// TryAs downcasts t to the specific type T.  It returns false if t is of any
// other kind.
//
//	if it, ok := llvm.TryAs[llvm.IntegerType](typ); ok {
//		fmt.Println(it.Width())
//	}
func TryAs[T Variant](t Type) (T, bool) {
	v, ok := t.Downcast().(T)
	return v, ok
}

// Upcast returns the generic view of a specific type.  Specific types already
// satisfy Type, so this is only needed to strip the static kind entirely.
func Upcast(v Variant) Type {
	return v.base()
}
