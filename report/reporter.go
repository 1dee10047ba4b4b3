package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its functions can be safely called from
// multiple goroutines.
type Reporter struct {
	// The mutex used to synchonize different report calls.
	m sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// Indicates whether or not an error has been reported.
	isErr bool

	out io.Writer
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all messages to the user (default).
)

// logLevelNames maps the names accepted on the command line and in config
// files to log levels.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// LogLevelNames returns the canonical log level names in increasing order of
// verbosity.
func LogLevelNames() []string {
	return []string{"silent", "error", "warn", "verbose"}
}

// LogLevelFromName converts a log level name to a log level.
func LogLevelFromName(name string) (int, error) {
	if level, ok := logLevelNames[strings.ToLower(name)]; ok {
		return level, nil
	}

	return LogLevelVerbose, fmt.Errorf("unknown log level %q (expected one of %s)", name, strings.Join(LogLevelNames(), ", "))
}

// rep is the global reporter instance.
var rep = &Reporter{logLevel: LogLevelVerbose, out: os.Stdout}

// exit ends the process after a fatal report.
var exit = os.Exit

// InitReporter initializes the global reporter to the given log level.  Output
// goes to standard out.
func InitReporter(logLevel int) {
	InitReporterTo(os.Stdout, logLevel)
}

// InitReporterTo initializes the global reporter to write to w.  Colors are
// only used when w is a terminal.
func InitReporterTo(w io.Writer, logLevel int) {
	if isTerminal(w) {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	rep.logLevel = logLevel
	rep.isErr = false
	rep.out = w
}

// isTerminal returns whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LogLevel returns the log level of the global reporter.
func LogLevel() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.logLevel
}
