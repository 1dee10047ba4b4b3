package llvm

import (
	"github.com/google/uuid"

	"llc/native"
)

// Context owns every type and module created through it.  Types are interned:
// only one instance of a given type exists per context.  Types are never
// mutated nor destroyed individually; they live exactly as long as their
// context.  A context must not be used from several goroutines at once.
type Context struct {
	lib native.Library
	c   native.ContextHandle
	id  uuid.UUID

	// owned lists the objects disposed of along with the context, in order of
	// creation.
	owned    []disposable
	disposed bool
}

// disposable is an object owned by a context.
type disposable interface {
	dispose()
}

// NewContext creates a new context in lib.
func NewContext(lib native.Library) *Context {
	return &Context{
		lib: lib,
		c:   lib.CreateContext(),
		id:  uuid.New(),
	}
}

// OpenContext opens the named backend and creates a context in it.
func OpenContext(backend string) (*Context, error) {
	lib, err := native.Open(backend)
	if err != nil {
		return nil, err
	}

	return NewContext(lib), nil
}

// Dispose disposes of the context and everything it owns.  Every wrapper
// obtained from the context becomes unusable.  Disposing twice does nothing.
func (c *Context) Dispose() {
	if c.disposed {
		return
	}

	for i := len(c.owned) - 1; i >= 0; i-- {
		c.owned[i].dispose()
	}

	c.owned = nil
	c.lib.DestroyContext(c.c)
	c.disposed = true
}

// takeOwnership registers d to be disposed of with the context.
func (c *Context) takeOwnership(d disposable) {
	c.owned = append(c.owned, d)
}

// alive fails fast if the context has been disposed.
func (c *Context) alive(op string) {
	if c.disposed {
		panic(violation(c, op, ErrContextDisposed, "the context was disposed before this call"))
	}
}

// ID returns the unique identifier of the context.  It is only used to tell
// contexts apart in diagnostics.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// Library returns the library the context lives in.
func (c *Context) Library() native.Library {
	return c.lib
}

// Disposed returns whether the context has been disposed.
func (c *Context) Disposed() bool {
	return c.disposed
}

// -----------------------------------------------------------------------------

// Wrap returns the generic view of a raw type handle.  The handle must have
// been issued by this context: a null handle or one owned by another context
// is a contract violation.  No kind check is performed.
func (c *Context) Wrap(h native.Handle) Type {
	c.alive("Wrap")

	if h == 0 {
		panic(violation(c, "Wrap", ErrForeignHandle, "null type handle"))
	}

	owner, known := c.owner(h)
	if !known {
		panic(violation(c, "Wrap", ErrForeignHandle, "type %#x is unknown to the library", uintptr(h)))
	}

	if owner != c.c {
		panic(violation(c, "Wrap", ErrForeignHandle, "type %#x belongs to context %#x", uintptr(h), uintptr(owner)))
	}

	return typeBase{ctx: c, h: h}
}

// owner queries the context that owns h.  It returns false if the library
// rejects the handle altogether.
func (c *Context) owner(h native.Handle) (owner native.ContextHandle, known bool) {
	defer func() {
		if recover() != nil {
			known = false
		}
	}()

	return c.lib.TypeContext(h), true
}

// wrap returns the generic view of a handle the library just handed back for
// one of this context's types.
func (c *Context) wrap(h native.Handle) typeBase {
	return typeBase{ctx: c, h: h}
}

// handles collects the raw handles of ts, all of which must belong to c.
func (c *Context) handles(op string, ts []Type) []native.Handle {
	if len(ts) == 0 {
		return nil
	}

	hs := make([]native.Handle, len(ts))
	for i, t := range ts {
		if t.Context() != c {
			panic(violation(c, op, ErrForeignHandle, "type %#x belongs to context %s", uintptr(t.Handle()), t.Context().id))
		}

		hs[i] = t.Handle()
	}

	return hs
}

// as converts a handle just issued for this context into the wrapper T,
// verifying that its queried kind matches T.
func as[T Variant](c *Context, op string, h native.Handle) T {
	v, ok := TryAs[T](c.Wrap(h))
	if !ok {
		var want T
		panic(violation(c, op, ErrKindMismatch, "expected %T, library returned a %s type", want, c.wrap(h).Kind()))
	}

	return v
}
