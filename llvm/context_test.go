package llvm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llc/llvm"
	"llc/native"
	"llc/native/irlib"
	"llc/native/nativetest"
)

func TestOpenContext(t *testing.T) {
	c, err := llvm.OpenContext(irlib.BackendName)
	require.NoError(t, err)
	defer c.Dispose()

	assert.Equal(t, uint(64), c.Int64Type().Width())
	assert.NotEqual(t, c.ID(), llvm.NewContext(c.Library()).ID())

	_, err = llvm.OpenContext("no-such-backend")
	assert.Error(t, err)
}

func TestDisposeIsIdempotent(t *testing.T) {
	c := llvm.NewContext(irlib.New())

	assert.False(t, c.Disposed())
	c.Dispose()
	assert.True(t, c.Disposed())
	assert.NotPanics(t, c.Dispose)
}

func TestUseAfterDispose(t *testing.T) {
	c := llvm.NewContext(irlib.New())

	i8 := c.Int8Type()
	ft := llvm.NewFunctionType(i8)
	mod := c.NewModule("m")
	c.Dispose()

	// Handles stay readable since they are only identities.
	assert.NotZero(t, i8.Handle())
	assert.Same(t, c, i8.Context())

	requireViolation(t, llvm.ErrContextDisposed, func() { i8.Width() })
	requireViolation(t, llvm.ErrContextDisposed, func() { _ = i8.String() })
	requireViolation(t, llvm.ErrContextDisposed, func() { i8.Downcast() })
	requireViolation(t, llvm.ErrContextDisposed, func() { ft.Params() })
	requireViolation(t, llvm.ErrContextDisposed, func() { c.Int8Type() })
	requireViolation(t, llvm.ErrContextDisposed, func() { c.Wrap(i8.Handle()) })
	requireViolation(t, llvm.ErrContextDisposed, func() { llvm.NewPointerType(i8) })
	requireViolation(t, llvm.ErrContextDisposed, func() { mod.Name() })
}

func TestForeignHandles(t *testing.T) {
	lib := irlib.New()

	c1 := llvm.NewContext(lib)
	defer c1.Dispose()

	c2 := llvm.NewContext(lib)
	defer c2.Dispose()

	i8 := c1.Int8Type()

	cerr := requireViolation(t, llvm.ErrForeignHandle, func() { c2.Wrap(i8.Handle()) })
	assert.Equal(t, "Wrap", cerr.Op)
	assert.Equal(t, c2.ID(), cerr.Context)

	requireViolation(t, llvm.ErrForeignHandle, func() { c1.Wrap(0) })

	// Handles the library cannot resolve at all.
	cerr = requireViolation(t, llvm.ErrForeignHandle, func() { c1.Wrap(native.Handle(1 << 20)) })
	assert.Contains(t, cerr.Detail, "unknown to the library")

	gone := llvm.NewContext(lib)
	stale := gone.Int8Type().Handle()
	gone.Dispose()
	requireViolation(t, llvm.ErrForeignHandle, func() { c1.Wrap(stale) })
	requireViolation(t, llvm.ErrForeignHandle, func() { llvm.NewFunctionType(c2.VoidType(), i8) })
	requireViolation(t, llvm.ErrForeignHandle, func() { c2.StructType(false, i8) })
	requireViolation(t, llvm.ErrForeignHandle, func() { c2.NamedStructType("s", false, i8) })

	mod := c2.NewModule("m")
	requireViolation(t, llvm.ErrForeignHandle, func() {
		mod.AddFunction("f", llvm.NewFunctionType(c1.VoidType()))
	})

	// Equal types in different contexts are still different types.
	assert.False(t, llvm.Same(c1.Int8Type(), c2.Int8Type()))
}

func TestUnknownKindTag(t *testing.T) {
	lib := nativetest.NewerKinds{Library: irlib.New()}
	c := llvm.NewContext(lib)
	defer c.Dispose()

	f := c.FloatType()
	cerr := requireViolation(t, llvm.ErrUnknownKind, func() { llvm.NewVectorType(f, 4) })
	assert.Contains(t, cerr.Error(), "kind tag 17")

	h := lib.VectorType(f.Handle(), 2)
	g := c.Wrap(h)
	requireViolation(t, llvm.ErrUnknownKind, func() { g.Kind() })
	requireViolation(t, llvm.ErrUnknownKind, func() { g.Downcast() })
	requireViolation(t, llvm.ErrUnknownKind, func() { llvm.TryAs[llvm.VectorType](g) })

	// The other kinds are unaffected.
	assert.Equal(t, llvm.FloatTypeKind, f.Kind())
}

func TestBuiltinKindMismatch(t *testing.T) {
	c := llvm.NewContext(nativetest.SwappedBuiltin{Library: irlib.New()})
	defer c.Dispose()

	cerr := requireViolation(t, llvm.ErrKindMismatch, func() { c.FloatType() })
	assert.Equal(t, "FloatType", cerr.Op)
	assert.Contains(t, cerr.Detail, "Integer")

	assert.Equal(t, uint(8), c.Int8Type().Width())
}

func TestContractErrorUnwraps(t *testing.T) {
	c, _ := newTestContext(t)

	cerr := requireViolation(t, llvm.ErrForeignHandle, func() { c.Wrap(0) })

	var err error = cerr
	assert.True(t, errors.Is(err, llvm.ErrForeignHandle))
	assert.False(t, errors.Is(err, llvm.ErrKindMismatch))
	assert.Contains(t, err.Error(), "llvm: Wrap: ")
	assert.Contains(t, err.Error(), c.ID().String())
}

func TestInvalidIntWidth(t *testing.T) {
	c, _ := newTestContext(t)

	assert.Panics(t, func() { c.IntType(0) })
	assert.Panics(t, func() { c.IntType(llvm.MaxIntWidth + 1) })
	assert.Equal(t, uint(llvm.MaxIntWidth), c.IntType(llvm.MaxIntWidth).Width())
}

func TestScalarTypes(t *testing.T) {
	c, _ := newTestContext(t)

	assert.Equal(t, uint(8), llvm.IntTypeOf[int8](c).Width())
	assert.Equal(t, uint(16), llvm.IntTypeOf[uint16](c).Width())
	assert.Equal(t, uint(32), llvm.IntTypeOf[int32](c).Width())
	assert.Equal(t, uint(64), llvm.IntTypeOf[uint64](c).Width())
	assert.True(t, llvm.Same(c.Int8Type(), llvm.IntTypeOf[byte](c)))

	assert.IsType(t, llvm.FloatType{}, llvm.FloatTypeOf[float32](c))
	assert.IsType(t, llvm.DoubleType{}, llvm.FloatTypeOf[float64](c))

	assert.True(t, llvm.Same(c.Int1Type(), llvm.BoolType(c)))
}
