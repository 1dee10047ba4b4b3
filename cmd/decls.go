package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/llir/llvm/asm"

	"llc/config"
	"llc/llvm"
	"llc/native"
	"llc/report"
)

// execDeclsCommand re-declares every function of the LLVM IR file at path in
// a new module and writes the module to outPath, or to out if outPath is
// empty.
func execDeclsCommand(out io.Writer, lib native.Library, cfg *config.Config, path, outPath string) error {
	m, err := asm.ParseFile(path)
	if err != nil {
		return err
	}

	c := llvm.NewContext(lib)
	defer c.Dispose()

	name := cfg.ModuleName
	if cfg.Path == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	mod := c.NewModule(name)

	triple := cfg.TargetTriple
	if triple == "" {
		triple = m.TargetTriple
	}

	if triple != "" {
		mod.SetTargetTriple(triple)
	}

	tc := newTypeConverter(c)
	for _, f := range m.Funcs {
		sig, err := tc.convFuncType(f.Sig)
		if err != nil {
			return fmt.Errorf("function `@%s`: %w", f.Name(), err)
		}

		if decl := mod.AddFunction(f.Name(), sig); decl.Name() != f.Name() {
			report.ReportWarning("function `@%s` was renamed to `@%s`", f.Name(), decl.Name())
		}
	}

	if outPath == "" {
		_, err = mod.WriteTo(out)
		return err
	}

	if err := mod.WriteToFile(outPath); err != nil {
		return err
	}

	report.ReportInfo("decls", "declared %d function(s) from %s in %s", len(m.Funcs), path, outPath)
	return nil
}
