package llvm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"llc/llvm"
	"llc/native/irlib"
)

// newTestContext creates a context in a fresh in-process library.  The
// context is disposed of when the test ends.
func newTestContext(t *testing.T) (*llvm.Context, *irlib.Library) {
	t.Helper()

	lib := irlib.New()
	c := llvm.NewContext(lib)
	t.Cleanup(c.Dispose)

	return c, lib
}

// sampleTypes returns one type of every kind, in kind order.
func sampleTypes(c *llvm.Context) []llvm.Variant {
	i8 := c.Int8Type()
	i32 := c.Int32Type()

	return []llvm.Variant{
		c.VoidType(),
		c.HalfType(),
		c.FloatType(),
		c.DoubleType(),
		c.X86FP80Type(),
		c.FP128Type(),
		c.PPCFP128Type(),
		c.LabelType(),
		i32,
		llvm.NewFunctionType(i32, i8),
		c.StructType(false, i32, c.DoubleType()),
		llvm.NewArrayType(i8, 4),
		llvm.NewPointerType(i8),
		llvm.NewVectorType(c.FloatType(), 4),
		c.MetadataType(),
		c.X86MMXType(),
		c.TokenType(),
	}
}

// requireViolation runs f and requires it to panic with a contract error
// wrapping target.
func requireViolation(t *testing.T, target error, f func()) *llvm.ContractError {
	t.Helper()

	var recovered interface{}
	func() {
		defer func() {
			recovered = recover()
		}()

		f()
	}()

	require.NotNil(t, recovered, "expected a contract violation")

	cerr, ok := recovered.(*llvm.ContractError)
	require.Truef(t, ok, "panic value %#v is not a contract error", recovered)
	require.ErrorIs(t, cerr, target)

	return cerr
}
