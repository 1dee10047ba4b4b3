package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ComedicChimera/olive"

	"llc/config"
	"llc/native"
	"llc/report"

	// Backends.
	_ "llc/native/capi"
	_ "llc/native/irlib"
)

// Execute is the main entry point for the `lltypes` CLI utility.
func Execute() {
	code := func() (code int) {
		defer func() {
			if code == 0 && report.AnyErrors() {
				code = 1
			}
		}()

		defer report.CatchErrors("lltypes")

		return Run(os.Args, os.Stdout)
	}()

	os.Exit(code)
}

// options are the global arguments given on the command line.  Empty fields
// were not given.
type options struct {
	LogLevel   string
	ConfigPath string
	Backend    string
}

// Run parses args and runs the selected subcommand, writing its output to
// out.  It returns the process exit code.
func Run(args []string, out io.Writer) int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("lltypes", "lltypes inspects LLVM types through a typed view of the LLVM type hierarchy", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, report.LogLevelNames())
	cli.AddStringArg("config", "c", "the path to the config file", false)
	cli.AddSelectorArg("backend", "b", "the library backend", false, native.Backends())

	describeCmd := cli.AddSubcommand("describe", "describe `;` separated LLVM type expressions", true)
	describeCmd.AddPrimaryArg("types", "the type expressions, eg. `i32 (i8*, ...); [4 x i8]`", true)

	cli.AddSubcommand("kinds", "list the LLVM type kinds", false)

	declsCmd := cli.AddSubcommand("decls", "re-declare the functions of an LLVM IR file", true)
	declsCmd.AddPrimaryArg("file", "the path to the `.ll` file", true)
	declsCmd.AddStringArg("out", "o", "the output path (defaults to standard out)", false)

	cli.AddSubcommand("version", "print the lltypes version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		report.InitReporterTo(out, report.LogLevelError)
		report.ReportStdError("usage", err)
		return 1
	}

	opts := options{}
	if v, ok := result.Arguments["loglevel"]; ok {
		opts.LogLevel = v.(string)
	}

	if v, ok := result.Arguments["config"]; ok {
		opts.ConfigPath = v.(string)
	}

	if v, ok := result.Arguments["backend"]; ok {
		opts.Backend = v.(string)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		report.InitReporterTo(out, report.LogLevelError)
		report.ReportStdError("config", err)
		return 1
	}

	report.InitReporterTo(out, cfg.LogLevel)
	for _, warning := range cfg.Warnings {
		report.ReportWarning("%s", warning)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	if err := execSubcommand(out, cfg, subcmdName, subResult); err != nil {
		report.ReportStdError(subcmdName, err)
		return 1
	}

	return 0
}

// execSubcommand runs the named subcommand.
func execSubcommand(out io.Writer, cfg *config.Config, name string, result *olive.ArgParseResult) error {
	switch name {
	case "kinds":
		return execKindsCommand(out)
	case "version":
		fmt.Fprintf(out, "lltypes v%s (backends: %s)\n", config.Version, strings.Join(native.Backends(), ", "))
		return nil
	}

	lib, err := native.Open(cfg.Backend)
	if err != nil {
		return err
	}

	switch name {
	case "describe":
		exprs, _ := result.PrimaryArg()
		return execDescribeCommand(out, lib, splitTypeExprs(exprs))
	case "decls":
		path, _ := result.PrimaryArg()

		outPath := ""
		if v, ok := result.Arguments["out"]; ok {
			outPath = v.(string)
		}

		return execDeclsCommand(out, lib, cfg, path, outPath)
	}

	return fmt.Errorf("unknown subcommand `%s`", name)
}

// resolveConfig loads the config file and applies the command line on top of
// it.  Without an explicit path, the working directory and its parents are
// searched for a config file.
func resolveConfig(opts options) (*config.Config, error) {
	cfg := config.Default()

	path := opts.ConfigPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = config.Find(wd)
		}
	}

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if opts.LogLevel != "" {
		level, err := report.LogLevelFromName(opts.LogLevel)
		if err != nil {
			return nil, err
		}

		cfg.LogLevel = level
		cfg.LogLevelName = opts.LogLevel
	}

	if opts.Backend != "" {
		if err := config.ValidateBackend(opts.Backend); err != nil {
			return nil, err
		}

		cfg.Backend = opts.Backend
	}

	return cfg, nil
}
