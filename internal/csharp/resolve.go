package csharp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/standardbeagle/scriptsym/internal/symbols"
)

type instanceKey struct {
	def  *symbols.Symbol
	args string
}

// instantiate returns the constructed generic type def<args>. Instances are
// shared across units so the same construction is always the same symbol.
func (a *Analyzer) instantiate(def *symbols.Symbol, args []string) *symbols.Symbol {
	key := instanceKey{def: def, args: strings.Join(args, ", ")}
	if inst, ok := a.instances[key]; ok {
		return inst
	}
	inst := *def
	inst.TypeArguments = args
	inst.OriginalDefinition = def
	a.instances[key] = &inst
	return &inst
}

// resolver binds the reference sites of one file to symbols
type resolver struct {
	a          *Analyzer
	f          *file
	seen       map[*symbols.Symbol]bool
	unresolved map[string]*symbols.Symbol
	out        []*symbols.Symbol
}

func newResolver(a *Analyzer, f *file) *resolver {
	return &resolver{
		a:          a,
		f:          f,
		seen:       make(map[*symbols.Symbol]bool),
		unresolved: make(map[string]*symbols.Symbol),
	}
}

// resolveAll returns the referenced symbols in first-use order
func (r *resolver) resolveAll() []*symbols.Symbol {
	for _, ref := range r.f.refs {
		r.resolve(ref)
	}
	return r.out
}

func (r *resolver) emit(s *symbols.Symbol) {
	if s != nil && !r.seen[s] {
		r.seen[s] = true
		r.out = append(r.out, s)
	}
}

func (r *resolver) resolve(ref reference) {
	switch ref.kind {
	case refType:
		r.visitType(ref.typ, ref.scope, ref.loc)
	case refConstruct:
		t := r.visitType(ref.typ, ref.scope, ref.loc)
		r.emit(findMember(t, symbols.ConstructorName, ref.args))
	case refMember:
		if ref.typ == nil {
			for _, st := range r.f.staticUsings {
				if m := findMember(r.lookup(st, ref.scope), ref.member, ref.args); m != nil {
					r.emit(m)
					return
				}
			}
			return
		}
		owner := r.lookup(ref.typ, ref.scope)
		if owner == nil {
			if r.namesMissingType(ref.typ, ref.scope) {
				r.emit(r.placeholder(ref.typ, ref.loc))
			}
			return
		}
		r.emit(findMember(owner, ref.member, ref.args))
	}
}

// visitType resolves a type spelling, emits the type and its type
// arguments, and returns the type. Unresolved names in type positions are
// emitted as assembly-less placeholders so discovery reports them.
func (r *resolver) visitType(tr *typeRef, sc *scope, loc symbols.Location) *symbols.Symbol {
	if tr == nil || tr.Name == "" || untypedNames[tr.Name] {
		return nil
	}
	if tr.Simple() && sc != nil && sc.typeParams[tr.Name] {
		return nil
	}

	args := make([]string, len(tr.Args))
	bound := len(tr.Args) > 0
	for i, arg := range tr.Args {
		r.visitType(arg, sc, loc)
		args[i] = arg.String()
		bound = bound && arg.Name != ""
	}

	def := r.lookup(tr, sc)
	if def == nil {
		if _, ok := predefinedTypes[tr.Name]; ok {
			return nil
		}
		r.emit(r.placeholder(tr, loc))
		return nil
	}
	t := def
	if bound && len(def.TypeArguments) == len(args) {
		t = r.a.instantiate(def, args)
	}
	r.emit(t)
	return t
}

// namesMissingType reports whether an unbound member-access owner can
// only be a type: it is spelled like one and is not a namespace, a variable
// of the file or a member of any known type. A qualified owner counts only
// when its qualifier is a known namespace; otherwise the qualifier is
// judged on its own.
func (r *resolver) namesMissingType(tr *typeRef, sc *scope) bool {
	if tr == nil || tr.Name == "" || r.a.namespaces[tr.Name] {
		return false
	}
	if i := strings.LastIndex(tr.Name, "."); i >= 0 {
		return r.a.namespaces[tr.Name[:i]]
	}
	name := tr.Name
	if sc != nil && sc.typeParams[name] {
		return false
	}
	if r.f.values[name] || r.a.memberNames[name] || contextualValues[name] {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}

// contextualValues are identifiers bound without a declaration
var contextualValues = map[string]bool{"value": true, "args": true}

func (r *resolver) placeholder(tr *typeRef, loc symbols.Location) *symbols.Symbol {
	if p, ok := r.unresolved[tr.Name]; ok {
		return p
	}
	p := &symbols.Symbol{
		Name:     tr.Name,
		Kind:     symbols.KindType,
		Location: loc,
	}
	r.unresolved[tr.Name] = p
	return p
}

// lookup binds a type name the way the compiler does, innermost first:
// using aliases, nested types of the enclosing types, the enclosing
// namespaces, then the namespaces imported by using directives.
func (r *resolver) lookup(tr *typeRef, sc *scope) *symbols.Symbol {
	if tr == nil || tr.Name == "" {
		return nil
	}
	name, arity := tr.Name, tr.Arity()
	if full, ok := predefinedTypes[name]; ok {
		return r.a.find(full, 0)
	}
	if tr.Global {
		return r.a.find(name, arity)
	}
	if sc == nil {
		sc = &scope{}
	}

	first, rest, _ := strings.Cut(name, ".")
	if alias, ok := r.f.aliases[first]; ok {
		target := alias.Name
		if rest != "" {
			target += "." + rest
		} else if arity == 0 {
			arity = alias.Arity()
		}
		if t := r.a.find(target, arity); t != nil {
			return t
		}
	}

	for t := sc.enclosing; t != nil; t = t.ContainingType {
		if found := r.a.find(t.FullName()+"."+name, arity); found != nil {
			return found
		}
	}
	for ns := sc.namespace; ; {
		if found := r.a.find(qualify(ns, name), arity); found != nil {
			return found
		}
		if ns == "" {
			break
		}
		if i := strings.LastIndex(ns, "."); i >= 0 {
			ns = ns[:i]
		} else {
			ns = ""
		}
	}
	for _, u := range r.f.usings {
		if found := r.a.find(u+"."+name, arity); found != nil {
			return found
		}
	}
	return nil
}

// findMember returns the member of t with the given name. For invocations
// (args >= 0) a method accepting that many arguments is preferred; for
// plain member access a non-method member is.
func findMember(t *symbols.Symbol, name string, args int) *symbols.Symbol {
	if t == nil {
		return nil
	}
	if t.OriginalDefinition != nil {
		t = t.OriginalDefinition
	}
	var first *symbols.Symbol
	for _, m := range t.Members {
		if m.Name != name {
			continue
		}
		if args < 0 && m.Kind != symbols.KindMethod {
			return m
		}
		if args >= 0 && m.Kind == symbols.KindMethod && acceptsArgs(m, args) {
			return m
		}
		if first == nil {
			first = m
		}
	}
	return first
}

func acceptsArgs(m *symbols.Symbol, args int) bool {
	n := len(m.Parameters)
	if n == args {
		return true
	}
	return n > 0 && m.Parameters[n-1].IsParams && args >= n-1
}
