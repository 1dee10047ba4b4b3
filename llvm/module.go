package llvm

import (
	"io"
	"os"

	"llc/native"
)

// Module represents an LLVM module.  A module is owned by its context and is
// disposed of along with it unless disposed of earlier.
type Module struct {
	ctx *Context
	m   native.ModuleHandle

	disposed bool
}

// NewModule creates a new module with the given name in the context.
func (c *Context) NewModule(name string) *Module {
	c.alive("NewModule")

	mod := &Module{ctx: c, m: c.lib.CreateModule(c.c, name)}
	c.takeOwnership(mod)
	return mod
}

// Dispose disposes of the module ahead of its context.
func (mod *Module) Dispose() {
	mod.ctx.alive("DisposeModule")
	mod.dispose()
}

func (mod *Module) dispose() {
	if mod.disposed {
		return
	}

	mod.ctx.lib.DisposeModule(mod.m)
	mod.disposed = true
}

// alive fails fast if either the module or its context is gone.
func (mod *Module) alive(op string) {
	mod.ctx.alive(op)

	if mod.disposed {
		panic(violation(mod.ctx, op, ErrContextDisposed, "module %#x was disposed", uintptr(mod.m)))
	}
}

// Context returns the context that owns the module.
func (mod *Module) Context() *Context {
	return mod.ctx
}

// Name returns the name of the module.
func (mod *Module) Name() string {
	mod.alive("Name")
	return mod.ctx.lib.ModuleName(mod.m)
}

// TargetTriple returns the target triple string of the module.
func (mod *Module) TargetTriple() string {
	mod.alive("TargetTriple")
	return mod.ctx.lib.Target(mod.m)
}

// SetTargetTriple sets the target triple string of the module.
func (mod *Module) SetTargetTriple(triple string) {
	mod.alive("SetTargetTriple")
	mod.ctx.lib.SetTarget(mod.m, triple)
}

// -----------------------------------------------------------------------------

// AddFunction declares a new function in the module.  If the name is already
// taken, the library picks a unique variation of it: use Function.Name to
// find out which.
func (mod *Module) AddFunction(name string, funcType FunctionType) Function {
	mod.alive("AddFunction")

	if funcType.ctx != mod.ctx {
		panic(violation(mod.ctx, "AddFunction", ErrForeignHandle, "function type %#x belongs to context %s", uintptr(funcType.h), funcType.ctx.id))
	}

	return Function{mod: mod, v: mod.ctx.lib.AddFunction(mod.m, name, funcType.h)}
}

// GetFunction returns the declared function corresponding to name.
func (mod *Module) GetFunction(name string) (Function, bool) {
	mod.alive("GetFunction")

	v := mod.ctx.lib.NamedFunction(mod.m, name)
	if v == 0 {
		return Function{}, false
	}

	return Function{mod: mod, v: v}, true
}

// Iterator represents an iterator of LLVM objects.  The pattern for using
// iterators is as follows:
//
//	for it := v.Items(); it.Next(); {
//		item := it.Item()
//		..
//	}
type Iterator[T any] interface {
	// Item returns the current item.  It is only valid after Next returned
	// true.
	Item() T

	// Next moves the iterator forward one element if an element exists.  It
	// returns whether or not it was able to move the iterator forward.  Next
	// should be called to get the first element.
	Next() bool
}

// funcIter is an iterator over the functions of a module.
type funcIter struct {
	mod   *Module
	funcs []native.ValueHandle
	pos   int
}

func (it *funcIter) Item() Function {
	return Function{mod: it.mod, v: it.funcs[it.pos-1]}
}

func (it *funcIter) Next() bool {
	if it.pos >= len(it.funcs) {
		return false
	}

	it.pos++
	return true
}

// Functions returns an iterator of the functions of the module in declaration
// order.
func (mod *Module) Functions() Iterator[Function] {
	mod.alive("Functions")
	return &funcIter{mod: mod, funcs: mod.ctx.lib.Functions(mod.m)}
}

// -----------------------------------------------------------------------------

// String renders the module as LLVM IR.
func (mod *Module) String() string {
	mod.alive("String")

	lib := mod.ctx.lib
	msg := lib.PrintModule(mod.m)
	defer lib.DisposeMessage(msg)

	return lib.MessageString(msg)
}

// WriteTo writes the LLVM IR of the module to w.
func (mod *Module) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, mod.String())
	return int64(n), err
}

// WriteToFile writes the LLVM IR of the module to a file.
func (mod *Module) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := mod.WriteTo(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// -----------------------------------------------------------------------------

// Function is a function declared in a module.
type Function struct {
	mod *Module
	v   native.ValueHandle
}

// Name returns the name of the function.
func (fn Function) Name() string {
	fn.mod.alive("FunctionName")
	return fn.mod.ctx.lib.FunctionName(fn.v)
}

// Signature returns the type of the function.
func (fn Function) Signature() FunctionType {
	fn.mod.alive("Signature")

	c := fn.mod.ctx
	return as[FunctionType](c, "Signature", c.lib.GlobalValueType(fn.v))
}
