//go:build llvm

package capi

/*
#include <stdlib.h>

#include "llvm-c/Core.h"
*/
import "C"

import (
	"fmt"
	"math"
	"unsafe"

	"llc/native"
)

func init() {
	native.Register(BackendName, func() (native.Library, error) {
		return Library{}, nil
	})
}

// Library forwards every call to the LLVM-C API.  LLVM itself holds all
// state, so the zero value is ready to use.
type Library struct{}

func typeRef(h native.Handle) C.LLVMTypeRef {
	return C.LLVMTypeRef(unsafe.Pointer(uintptr(h)))
}

func handleOf(t C.LLVMTypeRef) native.Handle {
	return native.Handle(uintptr(unsafe.Pointer(t)))
}

func contextRef(c native.ContextHandle) C.LLVMContextRef {
	return C.LLVMContextRef(unsafe.Pointer(uintptr(c)))
}

func moduleRef(m native.ModuleHandle) C.LLVMModuleRef {
	return C.LLVMModuleRef(unsafe.Pointer(uintptr(m)))
}

func valueRef(v native.ValueHandle) C.LLVMValueRef {
	return C.LLVMValueRef(unsafe.Pointer(uintptr(v)))
}

func messagePtr(msg native.Message) *C.char {
	return (*C.char)(unsafe.Pointer(uintptr(msg)))
}

func llvmBool(b bool) C.LLVMBool {
	if b {
		return 1
	}

	return 0
}

// typeRefArray converts handles to an array suitable for passing to LLVM.
// The pointer is nil when there are no handles.
func typeRefArray(hs []native.Handle) (*C.LLVMTypeRef, C.uint) {
	if len(hs) == 0 {
		return nil, 0
	}

	arr := make([]C.LLVMTypeRef, len(hs))
	for i, h := range hs {
		arr[i] = typeRef(h)
	}

	return &arr[0], C.uint(len(hs))
}

// -----------------------------------------------------------------------------

func (Library) CreateContext() native.ContextHandle {
	return native.ContextHandle(uintptr(unsafe.Pointer(C.LLVMContextCreate())))
}

func (Library) DestroyContext(c native.ContextHandle) {
	C.LLVMContextDispose(contextRef(c))
}

func (Library) BuiltinType(c native.ContextHandle, sel native.Selector) native.Handle {
	ctx := contextRef(c)

	var t C.LLVMTypeRef
	switch sel {
	case native.SelVoid:
		t = C.LLVMVoidTypeInContext(ctx)
	case native.SelHalf:
		t = C.LLVMHalfTypeInContext(ctx)
	case native.SelFloat:
		t = C.LLVMFloatTypeInContext(ctx)
	case native.SelDouble:
		t = C.LLVMDoubleTypeInContext(ctx)
	case native.SelX86_FP80:
		t = C.LLVMX86FP80TypeInContext(ctx)
	case native.SelFP128:
		t = C.LLVMFP128TypeInContext(ctx)
	case native.SelPPC_FP128:
		t = C.LLVMPPCFP128TypeInContext(ctx)
	case native.SelLabel:
		t = C.LLVMLabelTypeInContext(ctx)
	case native.SelMetadata:
		t = C.LLVMMetadataTypeInContext(ctx)
	case native.SelX86_MMX:
		t = C.LLVMX86MMXTypeInContext(ctx)
	case native.SelToken:
		t = C.LLVMTokenTypeInContext(ctx)
	case native.SelInt1:
		t = C.LLVMInt1TypeInContext(ctx)
	case native.SelInt8:
		t = C.LLVMInt8TypeInContext(ctx)
	case native.SelInt16:
		t = C.LLVMInt16TypeInContext(ctx)
	case native.SelInt32:
		t = C.LLVMInt32TypeInContext(ctx)
	case native.SelInt64:
		t = C.LLVMInt64TypeInContext(ctx)
	case native.SelInt128:
		t = C.LLVMInt128TypeInContext(ctx)
	default:
		panic(fmt.Sprintf("capi: unknown builtin selector %d", sel))
	}

	return handleOf(t)
}

func (Library) IntType(c native.ContextHandle, width uint32) native.Handle {
	return handleOf(C.LLVMIntTypeInContext(contextRef(c), C.uint(width)))
}

func (Library) FunctionType(ret native.Handle, params []native.Handle, varArg bool) native.Handle {
	paramArr, n := typeRefArray(params)
	return handleOf(C.LLVMFunctionType(typeRef(ret), paramArr, n, llvmBool(varArg)))
}

func (Library) PointerType(elem native.Handle, addrSpace uint32) native.Handle {
	return handleOf(C.LLVMPointerType(typeRef(elem), C.uint(addrSpace)))
}

func (Library) ArrayType(elem native.Handle, n uint64) native.Handle {
	if n > math.MaxUint32 {
		panic(fmt.Sprintf("capi: array length %d does not fit in an unsigned", n))
	}

	return handleOf(C.LLVMArrayType(typeRef(elem), C.uint(n)))
}

func (Library) VectorType(elem native.Handle, n uint32) native.Handle {
	return handleOf(C.LLVMVectorType(typeRef(elem), C.uint(n)))
}

func (Library) StructType(c native.ContextHandle, fields []native.Handle, packed bool) native.Handle {
	fieldArr, n := typeRefArray(fields)
	return handleOf(C.LLVMStructTypeInContext(contextRef(c), fieldArr, n, llvmBool(packed)))
}

func (Library) NamedStructType(c native.ContextHandle, name string, fields []native.Handle, packed bool) native.Handle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	st := C.LLVMStructCreateNamed(contextRef(c), cname)
	if fields != nil {
		fieldArr, n := typeRefArray(fields)
		C.LLVMStructSetBody(st, fieldArr, n, llvmBool(packed))
	}

	return handleOf(st)
}

// -----------------------------------------------------------------------------

func (Library) TypeContext(t native.Handle) native.ContextHandle {
	return native.ContextHandle(uintptr(unsafe.Pointer(C.LLVMGetTypeContext(typeRef(t)))))
}

func (Library) TypeKind(t native.Handle) native.RawKind {
	return native.RawKind(C.LLVMGetTypeKind(typeRef(t)))
}

func (Library) TypeIsSized(t native.Handle) bool {
	return C.LLVMTypeIsSized(typeRef(t)) == 1
}

func (Library) IntTypeWidth(t native.Handle) uint32 {
	return uint32(C.LLVMGetIntTypeWidth(typeRef(t)))
}

func (Library) ReturnType(t native.Handle) native.Handle {
	return handleOf(C.LLVMGetReturnType(typeRef(t)))
}

func (Library) ParamTypes(t native.Handle) []native.Handle {
	n := int(C.LLVMCountParamTypes(typeRef(t)))
	if n == 0 {
		return nil
	}

	paramArr := make([]C.LLVMTypeRef, n)
	C.LLVMGetParamTypes(typeRef(t), &paramArr[0])

	params := make([]native.Handle, n)
	for i, p := range paramArr {
		params[i] = handleOf(p)
	}

	return params
}

func (Library) IsFunctionVarArg(t native.Handle) bool {
	return C.LLVMIsFunctionVarArg(typeRef(t)) == 1
}

func (Library) ElementType(t native.Handle) native.Handle {
	return handleOf(C.LLVMGetElementType(typeRef(t)))
}

func (Library) PointerAddressSpace(t native.Handle) uint32 {
	return uint32(C.LLVMGetPointerAddressSpace(typeRef(t)))
}

func (Library) ArrayLength(t native.Handle) uint64 {
	return uint64(C.LLVMGetArrayLength(typeRef(t)))
}

func (Library) VectorSize(t native.Handle) uint32 {
	return uint32(C.LLVMGetVectorSize(typeRef(t)))
}

func (Library) StructName(t native.Handle) string {
	cname := C.LLVMGetStructName(typeRef(t))
	if cname == nil {
		return ""
	}

	return C.GoString(cname)
}

func (Library) StructElementTypes(t native.Handle) []native.Handle {
	n := int(C.LLVMCountStructElementTypes(typeRef(t)))
	if n == 0 {
		return nil
	}

	fieldArr := make([]C.LLVMTypeRef, n)
	C.LLVMGetStructElementTypes(typeRef(t), &fieldArr[0])

	fields := make([]native.Handle, n)
	for i, f := range fieldArr {
		fields[i] = handleOf(f)
	}

	return fields
}

func (Library) IsPackedStruct(t native.Handle) bool {
	return C.LLVMIsPackedStruct(typeRef(t)) == 1
}

func (Library) IsOpaqueStruct(t native.Handle) bool {
	return C.LLVMIsOpaqueStruct(typeRef(t)) == 1
}

// -----------------------------------------------------------------------------

func (Library) PrintType(t native.Handle) native.Message {
	return native.Message(uintptr(unsafe.Pointer(C.LLVMPrintTypeToString(typeRef(t)))))
}

func (Library) PrintModule(m native.ModuleHandle) native.Message {
	return native.Message(uintptr(unsafe.Pointer(C.LLVMPrintModuleToString(moduleRef(m)))))
}

func (Library) MessageString(msg native.Message) string {
	return C.GoString(messagePtr(msg))
}

func (Library) DisposeMessage(msg native.Message) {
	C.LLVMDisposeMessage(messagePtr(msg))
}

// -----------------------------------------------------------------------------

func (Library) CreateModule(c native.ContextHandle, name string) native.ModuleHandle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	m := C.LLVMModuleCreateWithNameInContext(cname, contextRef(c))
	return native.ModuleHandle(uintptr(unsafe.Pointer(m)))
}

func (Library) DisposeModule(m native.ModuleHandle) {
	C.LLVMDisposeModule(moduleRef(m))
}

func (Library) ModuleName(m native.ModuleHandle) string {
	var strlen C.size_t
	str := C.LLVMGetModuleIdentifier(moduleRef(m), &strlen)
	return C.GoStringN(str, C.int(strlen))
}

func (Library) SetTarget(m native.ModuleHandle, triple string) {
	ctriple := C.CString(triple)
	defer C.free(unsafe.Pointer(ctriple))
	C.LLVMSetTarget(moduleRef(m), ctriple)
}

func (Library) Target(m native.ModuleHandle) string {
	return C.GoString(C.LLVMGetTarget(moduleRef(m)))
}

func (Library) AddFunction(m native.ModuleHandle, name string, fnType native.Handle) native.ValueHandle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	fn := C.LLVMAddFunction(moduleRef(m), cname, typeRef(fnType))
	return native.ValueHandle(uintptr(unsafe.Pointer(fn)))
}

func (Library) NamedFunction(m native.ModuleHandle, name string) native.ValueHandle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return native.ValueHandle(uintptr(unsafe.Pointer(C.LLVMGetNamedFunction(moduleRef(m), cname))))
}

func (Library) Functions(m native.ModuleHandle) []native.ValueHandle {
	var fns []native.ValueHandle
	for fn := C.LLVMGetFirstFunction(moduleRef(m)); fn != nil; fn = C.LLVMGetNextFunction(fn) {
		fns = append(fns, native.ValueHandle(uintptr(unsafe.Pointer(fn))))
	}

	return fns
}

func (Library) FunctionName(v native.ValueHandle) string {
	var strlen C.size_t
	str := C.LLVMGetValueName2(valueRef(v), &strlen)
	return C.GoStringN(str, C.int(strlen))
}

func (Library) GlobalValueType(v native.ValueHandle) native.Handle {
	return handleOf(C.LLVMGlobalGetValueType(valueRef(v)))
}
