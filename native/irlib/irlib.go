// Package irlib implements the native capability contract in pure Go on top
// of the llir/llvm IR packages.  It needs no cgo and is the default backend.
package irlib

import (
	"fmt"
	"sync"

	"github.com/llir/llvm/ir/types"

	"llc/native"
)

// BackendName is the name irlib is registered under.
const BackendName = "ir"

func init() {
	native.Register(BackendName, func() (native.Library, error) {
		return New(), nil
	})
}

// Library is an in-process library.  Handles index into tables owned by the
// library; the zero handle is always null.  A single library may serve
// contexts used from different goroutines.
type Library struct {
	mu sync.Mutex

	contexts map[native.ContextHandle]*context
	nextCtx  native.ContextHandle

	types   []typeEntry
	modules []*moduleEntry
	values  []valueEntry

	messages map[native.Message]string
	nextMsg  native.Message
}

// context holds the interning tables of a single context.
type context struct {
	builtins   map[native.Selector]native.Handle
	ints       map[uint32]native.Handle
	structural map[string]native.Handle
	names      map[string]int
}

// typeEntry is a type object.  The handles of component types are stored
// alongside the llir type so inspection can hand back handles.
type typeEntry struct {
	ctx native.ContextHandle
	typ types.Type

	// For functions: the return type followed by the parameters.  For
	// pointers, arrays and vectors: the element type.  For structs: the fields.
	elems []native.Handle
}

// New creates an empty library.
func New() *Library {
	return &Library{
		contexts: make(map[native.ContextHandle]*context),
		messages: make(map[native.Message]string),
	}
}

// -----------------------------------------------------------------------------

func (l *Library) CreateContext() native.ContextHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextCtx++
	l.contexts[l.nextCtx] = &context{
		builtins:   make(map[native.Selector]native.Handle),
		ints:       make(map[uint32]native.Handle),
		structural: make(map[string]native.Handle),
		names:      make(map[string]int),
	}

	return l.nextCtx
}

func (l *Library) DestroyContext(c native.ContextHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.context(c)
	delete(l.contexts, c)

	// The entries stay behind as tombstones so stale handles are detected.
	for i := range l.types {
		if l.types[i].ctx == c {
			l.types[i].typ = nil
			l.types[i].elems = nil
		}
	}

	for _, me := range l.modules {
		if me.ctx == c {
			me.m = nil
		}
	}
}

// context returns the live context c.
func (l *Library) context(c native.ContextHandle) *context {
	ctx, ok := l.contexts[c]
	if !ok {
		panic(fmt.Sprintf("irlib: invalid or destroyed context %d", c))
	}

	return ctx
}

// entry returns the live type entry for t.
func (l *Library) entry(t native.Handle) *typeEntry {
	if t == 0 || int(t) > len(l.types) {
		panic(fmt.Sprintf("irlib: invalid type handle %d", t))
	}

	e := &l.types[t-1]
	if e.typ == nil {
		panic(fmt.Sprintf("irlib: type %d used after its context was destroyed", t))
	}

	return e
}

// newType appends a type entry and returns its handle.
func (l *Library) newType(c native.ContextHandle, typ types.Type, elems ...native.Handle) native.Handle {
	l.types = append(l.types, typeEntry{ctx: c, typ: typ, elems: elems})
	return native.Handle(len(l.types))
}

// intern returns the handle stored under key in c or creates it with mk.
func (l *Library) intern(c native.ContextHandle, key string, mk func() native.Handle) native.Handle {
	ctx := l.context(c)
	if h, ok := ctx.structural[key]; ok {
		return h
	}

	h := mk()
	ctx.structural[key] = h
	return h
}

// sameContext returns the context shared by all the given types.
func (l *Library) sameContext(hs ...native.Handle) native.ContextHandle {
	var c native.ContextHandle
	for i, h := range hs {
		e := l.entry(h)
		if i == 0 {
			c = e.ctx
		} else if e.ctx != c {
			panic(fmt.Sprintf("irlib: type %d belongs to context %d, expected %d", h, e.ctx, c))
		}
	}

	return c
}

// uniqueName makes name unique among the names already recorded in seen.
func uniqueName(seen map[string]int, name string) string {
	n, ok := seen[name]
	seen[name] = n + 1
	if !ok {
		return name
	}

	for {
		candidate := fmt.Sprintf("%s.%d", name, n)
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 1
			return candidate
		}

		n++
	}
}
