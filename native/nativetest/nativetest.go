// Package nativetest provides libraries that break the native contract in
// specific ways, for testing the code that guards against such libraries.
package nativetest

import "llc/native"

// NewerKinds reports vectors with the kind tag of scalable vectors, as a
// library newer than the known set of kinds would.
type NewerKinds struct {
	native.Library
}

func (l NewerKinds) TypeKind(t native.Handle) native.RawKind {
	if kind := l.Library.TypeKind(t); kind != native.RawVector {
		return kind
	}

	return native.RawScalableVector
}

// SwappedBuiltin answers queries for `float` with `i8`.
type SwappedBuiltin struct {
	native.Library
}

func (l SwappedBuiltin) BuiltinType(c native.ContextHandle, sel native.Selector) native.Handle {
	if sel == native.SelFloat {
		sel = native.SelInt8
	}

	return l.Library.BuiltinType(c, sel)
}
