package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llc/llvm"
	"llc/native/irlib"
)

// exitCode is the panic value raised in place of exiting.
type exitCode int

// capture initializes the reporter to a buffer and intercepts exits.
func capture(t *testing.T, logLevel int) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	InitReporterTo(&buf, logLevel)

	exit = func(code int) { panic(exitCode(code)) }
	t.Cleanup(func() {
		exit = osExit
		InitReporterTo(&bytes.Buffer{}, LogLevelVerbose)
	})

	return &buf
}

var osExit = exit

// exitsWith runs f and returns the code it exited with.
func exitsWith(t *testing.T, f func()) (code int) {
	t.Helper()

	defer func() {
		x := recover()
		ec, ok := x.(exitCode)
		require.Truef(t, ok, "expected an exit, got %v", x)
		code = int(ec)
	}()

	f()
	return
}

func TestLogLevelFromName(t *testing.T) {
	for name, want := range map[string]int{
		"silent":  LogLevelSilent,
		"error":   LogLevelError,
		"warn":    LogLevelWarn,
		"Warning": LogLevelWarn,
		"verbose": LogLevelVerbose,
	} {
		got, err := LogLevelFromName(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := LogLevelFromName("chatty")
	assert.ErrorContains(t, err, `unknown log level "chatty"`)
}

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		level            int
		info, warn, errs bool
	}{
		{LogLevelSilent, false, false, false},
		{LogLevelError, false, false, true},
		{LogLevelWarn, false, true, true},
		{LogLevelVerbose, true, true, true},
	}

	for _, test := range tests {
		buf := capture(t, test.level)

		ReportInfo("describe", "%d types", 3)
		ReportWarning("backend %q is slow", "ir")
		ReportStdError("types.ll", errors.New("no such file"))

		out := buf.String()
		assert.Equal(t, test.info, strings.Contains(out, "3 types"), out)
		assert.Equal(t, test.warn, strings.Contains(out, `backend "ir" is slow`), out)
		assert.Equal(t, test.errs, strings.Contains(out, "error: no such file"), out)

		// Errors are recorded even when they are not displayed.
		assert.True(t, AnyErrors())
	}
}

func TestFatalExits(t *testing.T) {
	buf := capture(t, LogLevelError)
	assert.False(t, AnyErrors())

	assert.Equal(t, 1, exitsWith(t, func() { ReportFatal("bad config %s", "lltypes.toml") }))
	assert.Contains(t, buf.String(), "fatal error")
	assert.Contains(t, buf.String(), "bad config lltypes.toml")
	assert.True(t, AnyErrors())
}

func TestICEAlwaysDisplayed(t *testing.T) {
	buf := capture(t, LogLevelSilent)

	assert.Equal(t, -1, exitsWith(t, func() { ReportICE("broken %d", 7) }))
	assert.Contains(t, buf.String(), "internal error")
	assert.Contains(t, buf.String(), "broken 7")
}

func TestCatchErrors(t *testing.T) {
	buf := capture(t, LogLevelVerbose)

	func() {
		defer CatchErrors("i32 (i8)")
		panic(fmt.Errorf("parsing: %w", errors.New("unexpected token")))
	}()

	assert.Contains(t, buf.String(), "i32 (i8)")
	assert.Contains(t, buf.String(), "error: parsing: unexpected token")

	code := exitsWith(t, func() {
		defer CatchErrors("ignored")
		panic(42)
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "ignored: 42")
}

func TestCatchContractViolation(t *testing.T) {
	buf := capture(t, LogLevelError)

	c := llvm.NewContext(irlib.New())
	defer c.Dispose()

	code := exitsWith(t, func() {
		defer CatchErrors("wrap")
		c.Wrap(0)
	})

	assert.Equal(t, -1, code)
	assert.Contains(t, buf.String(), "internal error")
	assert.Contains(t, buf.String(), "llvm: Wrap: handle does not belong to the context")
}
