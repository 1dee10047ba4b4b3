package llvm

import (
	"fmt"

	"llc/native"
)

// TypeKind identifies a specific kind of LLVM type.  The set of kinds is
// closed: a library reporting any other kind breaks its contract.
type TypeKind int

// Enumeration of different possible type kinds.
const (
	VoidTypeKind TypeKind = iota
	HalfTypeKind
	FloatTypeKind
	DoubleTypeKind
	X86_FP80TypeKind
	FP128TypeKind
	PPC_FP128TypeKind
	LabelTypeKind
	IntegerTypeKind
	FunctionTypeKind
	StructTypeKind
	ArrayTypeKind
	PointerTypeKind
	VectorTypeKind
	MetadataTypeKind
	X86_MMXTypeKind
	TokenTypeKind

	numTypeKinds
)

var typeKindNames = [numTypeKinds]string{
	VoidTypeKind:      "Void",
	HalfTypeKind:      "Half",
	FloatTypeKind:     "Float",
	DoubleTypeKind:    "Double",
	X86_FP80TypeKind:  "X86_FP80",
	FP128TypeKind:     "FP128",
	PPC_FP128TypeKind: "PPC_FP128",
	LabelTypeKind:     "Label",
	IntegerTypeKind:   "Integer",
	FunctionTypeKind:  "Function",
	StructTypeKind:    "Struct",
	ArrayTypeKind:     "Array",
	PointerTypeKind:   "Pointer",
	VectorTypeKind:    "Vector",
	MetadataTypeKind:  "Metadata",
	X86_MMXTypeKind:   "X86_MMX",
	TokenTypeKind:     "Token",
}

func (k TypeKind) String() string {
	if k < 0 || k >= numTypeKinds {
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}

	return typeKindNames[k]
}

// Kinds returns every type kind in enumeration order.
func Kinds() []TypeKind {
	kinds := make([]TypeKind, numTypeKinds)
	for i := range kinds {
		kinds[i] = TypeKind(i)
	}

	return kinds
}

// kindFromRaw converts a kind tag reported by the library.  A tag outside the
// closed set is a contract violation.
func kindFromRaw(c *Context, op string, raw native.RawKind) TypeKind {
	if raw < native.RawVoid || raw > native.RawToken {
		panic(violation(c, op, ErrUnknownKind, "library reported kind tag %d", int(raw)))
	}

	return TypeKind(raw)
}
