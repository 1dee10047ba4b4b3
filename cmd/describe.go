package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/llir/llvm/asm"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"llc/llvm"
	"llc/native"
	"llc/report"
)

// describeHeader is the header row of the describe table.
var describeHeader = []string{"Type", "Kind", "Sized", "Details"}

// splitTypeExprs splits a `;` separated list of type expressions.
func splitTypeExprs(arg string) []string {
	var exprs []string
	for _, expr := range strings.Split(arg, ";") {
		if expr = strings.TrimSpace(expr); expr != "" {
			exprs = append(exprs, expr)
		}
	}

	return exprs
}

// execDescribeCommand describes every type expression in a table.  Each
// expression is handled in its own context so they can run concurrently.
func execDescribeCommand(out io.Writer, lib native.Library, exprs []string) error {
	if len(exprs) == 0 {
		return errors.New("no type expressions given")
	}

	rows := make([][]string, len(exprs))

	var g errgroup.Group
	for i, expr := range exprs {
		i, expr := i, expr
		g.Go(func() error {
			row, err := describeTypeExpr(lib, expr)
			if err != nil {
				return fmt.Errorf("`%s`: %w", expr, err)
			}

			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var cerr *llvm.ContractError
		if errors.As(err, &cerr) {
			// Contract violations are internal errors: raise them on this
			// goroutine so the deferred handler sees them.
			panic(cerr)
		}

		return err
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(append(pterm.TableData{describeHeader}, rows...)).Srender()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, table)
	report.ReportInfo("describe", "described %d type(s)", len(rows))
	return nil
}

// describeTypeExpr parses and describes one type expression.
func describeTypeExpr(lib native.Library, expr string) (row []string, err error) {
	// Contract violations cannot cross goroutines as panics.
	defer func() {
		if x := recover(); x != nil {
			cerr, ok := x.(*llvm.ContractError)
			if !ok {
				panic(x)
			}

			err = cerr
		}
	}()

	src := fmt.Sprintf("%%%s0 = type %s\n", anonPrefix, expr)
	m, err := asm.ParseString("<describe>", src)
	if err != nil {
		return nil, err
	}

	if len(m.TypeDefs) == 0 {
		return nil, errors.New("not a type expression")
	}

	c := llvm.NewContext(lib)
	defer c.Dispose()

	typ, err := newTypeConverter(c).convType(m.TypeDefs[len(m.TypeDefs)-1])
	if err != nil {
		return nil, err
	}

	return describeType(typ), nil
}

// describeType builds the table row for typ.
func describeType(typ llvm.Type) []string {
	return []string{
		typ.String(),
		typ.Kind().String(),
		strconv.FormatBool(typ.Sized()),
		typeDetails(typ),
	}
}

// typeDetails renders the facts specific to the kind of typ.
func typeDetails(typ llvm.Type) string {
	switch v := typ.Downcast().(type) {
	case llvm.IntegerType:
		return fmt.Sprintf("width=%d", v.Width())
	case llvm.FunctionType:
		return fmt.Sprintf("ret=%s params=%d vararg=%t", v.ReturnType(), v.NumParams(), v.IsVarArg())
	case llvm.PointerType:
		return fmt.Sprintf("elem=%s addrspace=%d", v.ElemType(), v.AddrSpace())
	case llvm.ArrayType:
		return fmt.Sprintf("len=%d elem=%s", v.Len(), v.ElemType())
	case llvm.VectorType:
		return fmt.Sprintf("len=%d elem=%s", v.Len(), v.ElemType())
	case llvm.StructType:
		return fmt.Sprintf("name=%q packed=%t opaque=%t fields=%d", v.Name(), v.IsPacked(), v.IsOpaque(), v.NumFields())
	}

	return ""
}

// -----------------------------------------------------------------------------

// execKindsCommand lists the closed set of type kinds.
func execKindsCommand(out io.Writer) error {
	data := pterm.TableData{{"Tag", "Kind"}}
	for _, kind := range llvm.Kinds() {
		data = append(data, []string{strconv.Itoa(int(kind)), kind.String()})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, table)
	return nil
}
