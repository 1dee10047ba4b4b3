package report

import (
	"errors"
	"fmt"

	"llc/llvm"
)

// NOTE: All report functions will only display if the appropriate log level is
// set.  They simply do nothing if below their log level.

// ReportInfo reports an informational message.
func ReportInfo(tag, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayInfo(tag, fmt.Sprintf(message, args...))
	}
}

// ReportWarning reports a warning.
func ReportWarning(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel >= LogLevelWarn {
		displayWarning(fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.  The tag names what
// failed: a file, a type expression, a subcommand.
func ReportStdError(tag string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		displayStdError(tag, err)
	}
}

// ReportFatal reports a fatal error and exits the program.  Fatal errors are
// expected errors that should stop all work immediately: eg. a broken config
// file.
func ReportFatal(message string, args ...interface{}) {
	rep.m.Lock()

	rep.isErr = true

	if rep.logLevel > LogLevelSilent {
		displayFatal(fmt.Sprintf(message, args...))
	}

	rep.m.Unlock()
	exit(1)
}

// ReportICE reports an internal error: a bug in llc or a library that does
// not honour its contract.  These errors are always displayed regardless of
// log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()

	rep.isErr = true
	displayICE(fmt.Sprintf(message, args...))

	rep.m.Unlock()
	exit(-1)
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were reported.
func AnyErrors() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.isErr
}

// CatchErrors catches any errors thrown by a `panic` during a unit of work.
// Contract violations become internal errors, other errors are reported
// against tag and anything else is fatal.
// NB: This function must ALWAYS be deferred.
func CatchErrors(tag string) {
	if x := recover(); x != nil {
		err, isErr := x.(error)

		var cerr *llvm.ContractError
		switch {
		case isErr && errors.As(err, &cerr):
			ReportICE("%s", cerr)
		case isErr:
			ReportStdError(tag, err)
		default:
			ReportFatal("%s: %v", tag, x)
		}
	}
}
