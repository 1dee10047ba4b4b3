package irlib

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"llc/native"
)

// moduleEntry is a module and the functions declared in it.
type moduleEntry struct {
	ctx  native.ContextHandle
	name string

	// m is nil once the module is disposed.
	m *ir.Module

	funcs  []native.ValueHandle
	byName map[string]native.ValueHandle
	names  map[string]int
}

// valueEntry is a declared function.
type valueEntry struct {
	fn  *ir.Func
	sig native.Handle
}

func (l *Library) CreateModule(c native.ContextHandle, name string) native.ModuleHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.context(c)
	l.modules = append(l.modules, &moduleEntry{
		ctx:    c,
		name:   name,
		m:      ir.NewModule(),
		byName: make(map[string]native.ValueHandle),
		names:  make(map[string]int),
	})

	return native.ModuleHandle(len(l.modules))
}

func (l *Library) DisposeModule(m native.ModuleHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	me := l.module(m)
	me.m = nil
	me.byName = nil
}

// module returns the live module entry for m.
func (l *Library) module(m native.ModuleHandle) *moduleEntry {
	if m == 0 || int(m) > len(l.modules) {
		panic(fmt.Sprintf("irlib: invalid module handle %d", m))
	}

	me := l.modules[m-1]
	if me.m == nil {
		panic(fmt.Sprintf("irlib: module %d used after it was disposed", m))
	}

	return me
}

func (l *Library) ModuleName(m native.ModuleHandle) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.module(m).name
}

func (l *Library) SetTarget(m native.ModuleHandle, triple string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.module(m).m.TargetTriple = triple
}

func (l *Library) Target(m native.ModuleHandle) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.module(m).m.TargetTriple
}

func (l *Library) AddFunction(m native.ModuleHandle, name string, fnType native.Handle) native.ValueHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	me := l.module(m)

	e := l.entry(fnType)
	if e.ctx != me.ctx {
		panic(fmt.Sprintf("irlib: function type %d belongs to context %d, module %d to context %d", fnType, e.ctx, m, me.ctx))
	}

	sig := l.typeAs(fnType, native.RawFunction).(*types.FuncType)

	params := make([]*ir.Param, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = ir.NewParam("", p)
	}

	fn := me.m.NewFunc(uniqueName(me.names, name), sig.RetType, params...)
	fn.Sig.Variadic = sig.Variadic

	l.values = append(l.values, valueEntry{fn: fn, sig: fnType})
	v := native.ValueHandle(len(l.values))

	me.funcs = append(me.funcs, v)
	me.byName[fn.Name()] = v
	return v
}

func (l *Library) NamedFunction(m native.ModuleHandle, name string) native.ValueHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.module(m).byName[name]
}

func (l *Library) Functions(m native.ModuleHandle) []native.ValueHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]native.ValueHandle(nil), l.module(m).funcs...)
}

func (l *Library) FunctionName(v native.ValueHandle) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value(v).fn.Name()
}

func (l *Library) GlobalValueType(v native.ValueHandle) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value(v).sig
}

func (l *Library) value(v native.ValueHandle) *valueEntry {
	if v == 0 || int(v) > len(l.values) {
		panic(fmt.Sprintf("irlib: invalid value handle %d", v))
	}

	return &l.values[v-1]
}

// -----------------------------------------------------------------------------

func (l *Library) PrintType(t native.Handle) native.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	typ := l.entry(t).typ

	text := typ.LLString()
	if st, ok := typ.(*types.StructType); ok && st.TypeName != "" {
		text = st.String() + " = type " + st.LLString()
	}

	return l.newMessage(text)
}

func (l *Library) PrintModule(m native.ModuleHandle) native.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	me := l.module(m)
	me.m.TypeDefs = l.typeDefs(me)

	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n", me.name)
	sb.WriteString(me.m.String())

	return l.newMessage(sb.String())
}

// typeDefs collects the identified structs reachable from the functions of me
// in order of first use.
func (l *Library) typeDefs(me *moduleEntry) []types.Type {
	var defs []types.Type
	seen := make(map[types.Type]struct{})

	var visit func(typ types.Type)
	visit = func(typ types.Type) {
		if _, ok := seen[typ]; ok {
			return
		}

		seen[typ] = struct{}{}

		switch v := typ.(type) {
		case *types.PointerType:
			visit(v.ElemType)
		case *types.ArrayType:
			visit(v.ElemType)
		case *types.VectorType:
			visit(v.ElemType)
		case *types.FuncType:
			visit(v.RetType)
			for _, p := range v.Params {
				visit(p)
			}
		case *types.StructType:
			if v.TypeName != "" {
				defs = append(defs, v)
			}

			for _, f := range v.Fields {
				visit(f)
			}
		}
	}

	for _, v := range me.funcs {
		visit(l.value(v).fn.Sig)
	}

	return defs
}

func (l *Library) newMessage(text string) native.Message {
	l.nextMsg++
	l.messages[l.nextMsg] = text
	return l.nextMsg
}

func (l *Library) MessageString(msg native.Message) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	text, ok := l.messages[msg]
	if !ok {
		panic(fmt.Sprintf("irlib: message %d read after it was disposed", msg))
	}

	return text
}

func (l *Library) DisposeMessage(msg native.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.messages[msg]; !ok {
		panic(fmt.Sprintf("irlib: message %d disposed twice", msg))
	}

	delete(l.messages, msg)
}

// Outstanding returns the number of messages that have not been disposed.
func (l *Library) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.messages)
}
