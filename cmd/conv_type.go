package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/llir/llvm/ir/types"

	"llc/llvm"
)

// anonPrefix marks the type definitions lltypes wraps around type expressions
// in order to parse them.  Structs named with it are literal structs.
const anonPrefix = "lltypes."

// typeConverter rebuilds parsed llir types in a context.
type typeConverter struct {
	c *llvm.Context

	// structs caches the identified structs already converted.
	structs map[string]llvm.StructType

	// converting holds the identified structs being converted.
	converting map[string]struct{}
}

func newTypeConverter(c *llvm.Context) *typeConverter {
	return &typeConverter{
		c:          c,
		structs:    make(map[string]llvm.StructType),
		converting: make(map[string]struct{}),
	}
}

// convType converts an llir type into a type of the context.
func (tc *typeConverter) convType(typ types.Type) (llvm.Type, error) {
	switch v := typ.(type) {
	case *types.VoidType:
		return tc.c.VoidType(), nil
	case *types.IntType:
		if v.BitSize == 0 || v.BitSize > llvm.MaxIntWidth {
			return nil, fmt.Errorf("invalid integer width %d", v.BitSize)
		}

		return tc.c.IntType(uint(v.BitSize)), nil
	case *types.FloatType:
		return tc.convFloatType(v)
	case *types.LabelType:
		return tc.c.LabelType(), nil
	case *types.MetadataType:
		return tc.c.MetadataType(), nil
	case *types.MMXType:
		return tc.c.X86MMXType(), nil
	case *types.TokenType:
		return tc.c.TokenType(), nil
	case *types.PointerType:
		if v.ElemType == nil {
			return nil, fmt.Errorf("opaque pointers are not supported")
		}

		elem, err := tc.convType(v.ElemType)
		if err != nil {
			return nil, err
		}

		if v.AddrSpace > math.MaxUint32 {
			return nil, fmt.Errorf("invalid address space %d", v.AddrSpace)
		}

		return llvm.NewPointerTypeInAddrSpace(elem, int(v.AddrSpace)), nil
	case *types.FuncType:
		return tc.convFuncType(v)
	case *types.ArrayType:
		elem, err := tc.convType(v.ElemType)
		if err != nil {
			return nil, err
		}

		return llvm.NewArrayType(elem, v.Len), nil
	case *types.VectorType:
		if v.Scalable {
			return nil, fmt.Errorf("scalable vectors are not supported")
		}

		if v.Len > math.MaxUint32 {
			return nil, fmt.Errorf("invalid vector length %d", v.Len)
		}

		elem, err := tc.convType(v.ElemType)
		if err != nil {
			return nil, err
		}

		return llvm.NewVectorType(elem, uint(v.Len)), nil
	case *types.StructType:
		return tc.convStructType(v)
	}

	return nil, fmt.Errorf("type `%s` is not supported", typ.LLString())
}

func (tc *typeConverter) convFloatType(ft *types.FloatType) (llvm.Type, error) {
	switch ft.Kind {
	case types.FloatKindHalf:
		return tc.c.HalfType(), nil
	case types.FloatKindFloat:
		return tc.c.FloatType(), nil
	case types.FloatKindDouble:
		return tc.c.DoubleType(), nil
	case types.FloatKindX86_FP80:
		return tc.c.X86FP80Type(), nil
	case types.FloatKindFP128:
		return tc.c.FP128Type(), nil
	case types.FloatKindPPC_FP128:
		return tc.c.PPCFP128Type(), nil
	}

	return nil, fmt.Errorf("floating point type `%v` is not supported", ft.Kind)
}

// convFuncType converts a function signature.
func (tc *typeConverter) convFuncType(ft *types.FuncType) (llvm.FunctionType, error) {
	ret, err := tc.convType(ft.RetType)
	if err != nil {
		return llvm.FunctionType{}, err
	}

	params, err := tc.convTypes(ft.Params)
	if err != nil {
		return llvm.FunctionType{}, err
	}

	if ft.Variadic {
		return llvm.NewVarArgFunctionType(ret, params...), nil
	}

	return llvm.NewFunctionType(ret, params...), nil
}

func (tc *typeConverter) convStructType(st *types.StructType) (llvm.Type, error) {
	name := st.TypeName
	if strings.HasPrefix(name, anonPrefix) {
		name = ""
	}

	if name == "" {
		if st.Opaque {
			return tc.c.OpaqueStructType("opaque"), nil
		}

		fields, err := tc.convTypes(st.Fields)
		if err != nil {
			return nil, err
		}

		return tc.c.StructType(st.Packed, fields...), nil
	}

	if converted, ok := tc.structs[name]; ok {
		return converted, nil
	}

	if _, ok := tc.converting[name]; ok {
		return nil, fmt.Errorf("recursive struct `%%%s` is not supported", name)
	}

	tc.converting[name] = struct{}{}
	defer delete(tc.converting, name)

	var converted llvm.StructType
	if st.Opaque {
		converted = tc.c.OpaqueStructType(name)
	} else {
		fields, err := tc.convTypes(st.Fields)
		if err != nil {
			return nil, err
		}

		converted = tc.c.NamedStructType(name, st.Packed, fields...)
	}

	tc.structs[name] = converted
	return converted, nil
}

func (tc *typeConverter) convTypes(typs []types.Type) ([]llvm.Type, error) {
	converted := make([]llvm.Type, len(typs))
	for i, typ := range typs {
		t, err := tc.convType(typ)
		if err != nil {
			return nil, err
		}

		converted[i] = t
	}

	return converted, nil
}
