package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/llir/llvm/asm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llc/config"
	"llc/llvm"
	"llc/native/irlib"
	"llc/native/nativetest"
	"llc/report"
)

func quietReporter(t *testing.T) {
	t.Helper()

	report.InitReporterTo(io.Discard, report.LogLevelSilent)
	t.Cleanup(func() { report.InitReporterTo(io.Discard, report.LogLevelVerbose) })
}

func TestSplitTypeExprs(t *testing.T) {
	got := splitTypeExprs(" i32 ; [4 x i8];; i8* ")
	if diff := cmp.Diff([]string{"i32", "[4 x i8]", "i8*"}, got); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, splitTypeExprs(" ; "))
}

func TestDescribeTypeExpr(t *testing.T) {
	lib := irlib.New()

	tests := []struct {
		expr string
		want []string
	}{
		{"i32", []string{"i32", "Integer", "true", "width=32"}},
		{"double", []string{"double", "Double", "true", ""}},
		{"i8*", []string{"i8*", "Pointer", "true", "elem=i8 addrspace=0"}},
		{"[4 x i8]", []string{"[4 x i8]", "Array", "true", "len=4 elem=i8"}},
		{"<4 x float>", []string{"<4 x float>", "Vector", "true", "len=4 elem=float"}},
		{"i32 (i8*, ...)", []string{"i32 (i8*, ...)", "Function", "false", "ret=i32 params=1 vararg=true"}},
		{"<{ i32, i8 }>", []string{"<{ i32, i8 }>", "Struct", "true", `name="" packed=true opaque=false fields=2`}},
	}

	for _, test := range tests {
		got, err := describeTypeExpr(lib, test.expr)
		require.NoError(t, err, test.expr)

		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("describe %s mismatch (-want +got):\n%s", test.expr, diff)
		}
	}

	// Every expression gets a context of its own, all of which are gone.
	assert.Zero(t, lib.Outstanding())
}

func TestDescribeRejectsOutOfRangeTypes(t *testing.T) {
	lib := irlib.New()

	_, err := describeTypeExpr(lib, "<4294967297 x i8>")
	assert.ErrorContains(t, err, "invalid vector length 4294967297")

	_, err = describeTypeExpr(lib, "i8 addrspace(4294967299)*")
	assert.ErrorContains(t, err, "invalid address space 4294967299")

	row, err := describeTypeExpr(lib, "<4294967295 x i8>")
	require.NoError(t, err)
	assert.Equal(t, "len=4294967295 elem=i8", row[3])
}

func TestDescribeCommand(t *testing.T) {
	quietReporter(t)

	var buf bytes.Buffer
	err := execDescribeCommand(&buf, irlib.New(), []string{"i64", "[2 x double]", "void (i1)"})
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"Type", "Details", "width=64", "len=2 elem=double", "ret=void params=1 vararg=false"} {
		assert.Contains(t, out, want)
	}

	err = execDescribeCommand(&buf, irlib.New(), []string{"i32", "i32 i32"})
	assert.ErrorContains(t, err, "`i32 i32`")

	assert.Error(t, execDescribeCommand(&buf, irlib.New(), nil))
}

func TestDescribeRaisesContractViolations(t *testing.T) {
	quietReporter(t)

	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		execDescribeCommand(io.Discard, nativetest.NewerKinds{Library: irlib.New()}, []string{"i8", "<2 x i8>"})
	}()

	cerr, ok := recovered.(*llvm.ContractError)
	require.Truef(t, ok, "expected a contract error, got %#v", recovered)
	assert.True(t, errors.Is(cerr, llvm.ErrUnknownKind))
}

func TestKindsCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, execKindsCommand(&buf))

	for _, kind := range llvm.Kinds() {
		assert.Contains(t, buf.String(), kind.String())
	}
}

func TestConvNamedStructs(t *testing.T) {
	m, err := asm.ParseString("<test>", `
%pair = type { i32, i32 }
%handle = type opaque
%node = type { %node*, i32 }
%lltypes.0 = type { %pair, %pair*, %handle* }
`)
	require.NoError(t, err)

	c := llvm.NewContext(irlib.New())
	defer c.Dispose()

	tc := newTypeConverter(c)

	converted := make(map[string]llvm.Type)
	for _, def := range m.TypeDefs {
		typ, err := tc.convType(def)
		if def.Name() == "node" {
			assert.ErrorContains(t, err, "recursive struct `%node`")
			continue
		}

		require.NoError(t, err, def.Name())
		converted[def.Name()] = typ
	}

	require.Len(t, converted, 3)

	pair, ok := llvm.TryAs[llvm.StructType](converted["pair"])
	require.True(t, ok)
	assert.Equal(t, "pair", pair.Name())

	handle, ok := llvm.TryAs[llvm.StructType](converted["handle"])
	require.True(t, ok)
	assert.True(t, handle.IsOpaque())

	anon, ok := llvm.TryAs[llvm.StructType](converted[anonPrefix+"0"])
	require.True(t, ok)
	assert.Empty(t, anon.Name())

	fields := anon.Fields()
	require.Len(t, fields, 3)

	// Named structs are converted once and shared.
	assert.True(t, llvm.Same(pair, fields[0]))
	assert.True(t, llvm.Same(llvm.NewPointerType(pair), fields[1]))
	assert.True(t, llvm.Same(llvm.NewPointerType(handle), fields[2]))
}

// -----------------------------------------------------------------------------

const helloLL = `target triple = "x86_64-pc-linux-gnu"

declare i32 @puts(i8*)

declare i32 @printf(i8*, ...)

define i32 @main() {
entry:
	ret i32 0
}
`

func writeLL(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hello.ll")
	require.NoError(t, os.WriteFile(path, []byte(helloLL), 0o644))
	return path
}

func TestDeclsCommand(t *testing.T) {
	quietReporter(t)

	path := writeLL(t)

	var buf bytes.Buffer
	require.NoError(t, execDeclsCommand(&buf, irlib.New(), config.Default(), path, ""))

	out := buf.String()
	for _, want := range []string{
		"; ModuleID = 'hello'",
		`target triple = "x86_64-pc-linux-gnu"`,
		"@puts(",
		"@printf(",
		"declare i32 @main()",
	} {
		assert.Contains(t, out, want)
	}

	assert.NotContains(t, out, "ret i32 0")

	outPath := filepath.Join(t.TempDir(), "decls.ll")
	cfg := config.Default()
	cfg.Path = "lltypes.toml"
	cfg.ModuleName = "renamed"
	cfg.TargetTriple = "wasm32-unknown-unknown"
	require.NoError(t, execDeclsCommand(io.Discard, irlib.New(), cfg, path, outPath))

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "; ModuleID = 'renamed'")
	assert.Contains(t, string(written), `target triple = "wasm32-unknown-unknown"`)

	assert.Error(t, execDeclsCommand(io.Discard, irlib.New(), config.Default(), filepath.Join(t.TempDir(), "missing.ll"), ""))
}

func TestDeclsOutputParses(t *testing.T) {
	quietReporter(t)

	path := filepath.Join(t.TempDir(), "structs.ll")
	require.NoError(t, os.WriteFile(path, []byte(`%pair = type { i32, i32 }
%handle = type opaque

declare void @f(%pair* %p, %handle* %h)

declare [2 x %pair] @g()
`), 0o644))

	var buf bytes.Buffer
	require.NoError(t, execDeclsCommand(&buf, irlib.New(), config.Default(), path, ""))

	m, err := asm.ParseString("<decls>", buf.String())
	require.NoError(t, err, buf.String())

	names := make([]string, len(m.TypeDefs))
	for i, def := range m.TypeDefs {
		names[i] = def.Name()
	}

	assert.ElementsMatch(t, []string{"pair", "handle"}, names)
	assert.Len(t, m.Funcs, 2)
}

func TestDeclsRejectsOutOfRangeTypes(t *testing.T) {
	quietReporter(t)

	path := filepath.Join(t.TempDir(), "wide.ll")
	require.NoError(t, os.WriteFile(path, []byte("declare <4294967297 x i8> @g()\n"), 0o644))

	err := execDeclsCommand(io.Discard, irlib.New(), config.Default(), path, "")
	assert.ErrorContains(t, err, "function `@g`: invalid vector length")
}

// -----------------------------------------------------------------------------

// writeConfig writes a config file for Run into a directory of its own.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lltypes.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	t.Cleanup(func() { report.InitReporterTo(io.Discard, report.LogLevelVerbose) })

	configArg := "--config=" + writeConfig(t, "module-name = \"run\"\n")

	var buf bytes.Buffer
	assert.Equal(t, 0, Run([]string{"lltypes", "kinds", configArg}, &buf))
	assert.Contains(t, buf.String(), "PPC_FP128")

	buf.Reset()
	assert.Equal(t, 0, Run([]string{"lltypes", "version", configArg}, &buf))
	assert.Contains(t, buf.String(), "lltypes v"+config.Version)
	assert.Contains(t, buf.String(), irlib.BackendName)

	buf.Reset()
	assert.Equal(t, 0, Run([]string{"lltypes", "describe", "i16; float", configArg}, &buf))
	assert.Contains(t, buf.String(), "width=16")
	assert.Contains(t, buf.String(), "Float")
	assert.Contains(t, buf.String(), "described 2 type(s)")

	buf.Reset()
	assert.Equal(t, 0, Run([]string{"lltypes", "describe", "i16", configArg, "--loglevel=silent", "--backend=" + irlib.BackendName}, &buf))
	assert.Contains(t, buf.String(), "width=16")
	assert.NotContains(t, buf.String(), "described")

	buf.Reset()
	assert.Equal(t, 1, Run([]string{"lltypes", "describe", "not a type", configArg}, &buf))
	assert.Contains(t, buf.String(), "`not a type`")
	assert.True(t, report.AnyErrors())

	buf.Reset()
	assert.Equal(t, 1, Run([]string{"lltypes", "kinds", "--config=" + filepath.Join(t.TempDir(), "missing.toml")}, &buf))
	assert.Contains(t, buf.String(), "missing.toml")

	buf.Reset()
	assert.Equal(t, 0, Run([]string{"lltypes", "decls", writeLL(t), configArg}, &buf))
	assert.Contains(t, buf.String(), "; ModuleID = 'run'")
	assert.Contains(t, buf.String(), "@printf(")
}

func TestRunReportsConfigWarnings(t *testing.T) {
	t.Cleanup(func() { report.InitReporterTo(io.Discard, report.LogLevelVerbose) })

	configArg := "--config=" + writeConfig(t, "lltypes-version = \"9.9\"\n")

	var buf bytes.Buffer
	assert.Equal(t, 0, Run([]string{"lltypes", "kinds", configArg}, &buf))
	assert.Contains(t, buf.String(), "lltypes v9.9")

	buf.Reset()
	assert.Equal(t, 0, Run([]string{"lltypes", "kinds", configArg, "--loglevel=silent"}, &buf))
	assert.NotContains(t, buf.String(), "lltypes v9.9")
}

func TestResolveConfig(t *testing.T) {
	quietReporter(t)

	path := filepath.Join(t.TempDir(), "lltypes.toml")
	require.NoError(t, os.WriteFile(path, []byte("log-level = \"error\"\nmodule-name = \"demo\"\n"), 0o644))

	cfg, err := resolveConfig(options{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, report.LogLevelError, cfg.LogLevel)
	assert.Equal(t, "demo", cfg.ModuleName)
	assert.Equal(t, irlib.BackendName, cfg.Backend)

	cfg, err = resolveConfig(options{ConfigPath: path, LogLevel: "silent", Backend: irlib.BackendName})
	require.NoError(t, err)
	assert.Equal(t, report.LogLevelSilent, cfg.LogLevel)

	_, err = resolveConfig(options{ConfigPath: path, Backend: "gcc"})
	assert.ErrorContains(t, err, "unknown backend `gcc`")

	_, err = resolveConfig(options{LogLevel: "chatty"})
	assert.Error(t, err)

	_, err = resolveConfig(options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}
