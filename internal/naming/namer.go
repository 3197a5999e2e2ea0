// Package naming computes the script name of a symbol.
package naming

import (
	"fmt"
	"sort"
	"sync"

	"github.com/standardbeagle/scriptsym/internal/altsig"
	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/directives"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// DefaultStandardLibrary is the assembly treated as the standard library
// when none is configured.
const DefaultStandardLibrary = "mscorlib"

// defaultNativeTypes maps standard library types to the target-native type
// they are rendered as.
var defaultNativeTypes = map[string]string{
	"System.Object":                        "Object",
	"System.String":                        "String",
	"System.Boolean":                       "Boolean",
	"System.Byte":                          "Number",
	"System.SByte":                         "Number",
	"System.Int16":                         "Number",
	"System.UInt16":                        "Number",
	"System.Int32":                         "Number",
	"System.UInt32":                        "Number",
	"System.Int64":                         "Number",
	"System.UInt64":                        "Number",
	"System.Single":                        "Number",
	"System.Double":                        "Number",
	"System.Decimal":                       "Number",
	"System.Array":                         "Array",
	"System.Delegate":                      "Function",
	"System.MulticastDelegate":             "Function",
	"System.DateTime":                      "Date",
	"System.Exception":                     "Error",
	"System.Text.RegularExpressions.Regex": "RegExp",
}

// Namer maps symbols to script names. It is safe for concurrent use; the
// only internal state is a per-type memo of member default names.
type Namer struct {
	rules  Rules
	stdlib string
	groups *altsig.Groups
	native map[string]string

	// *symbols.Symbol (type) -> map[*symbols.Symbol]string
	defaults sync.Map
}

// Option configures a Namer
type Option func(*Namer)

// WithStandardLibrary sets the name of the standard library assembly
func WithStandardLibrary(name string) Option {
	return func(n *Namer) {
		if name != "" {
			n.stdlib = name
		}
	}
}

// WithGroups supplies prebuilt alternate signature groups. Methods missing
// from the groups fall back to a sibling search.
func WithGroups(g *altsig.Groups) Option {
	return func(n *Namer) {
		n.groups = g
	}
}

// WithNativeTypes replaces the native type map, keyed by full type name
func WithNativeTypes(m map[string]string) Option {
	return func(n *Namer) {
		n.native = m
	}
}

// New creates a Namer
func New(rules Rules, opts ...Option) *Namer {
	n := &Namer{
		rules:  rules,
		stdlib: DefaultStandardLibrary,
		native: defaultNativeTypes,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Rules returns the rename rules in effect
func (n *Namer) Rules() Rules {
	return n.rules
}

// StandardLibrary returns the standard library assembly name
func (n *Namer) StandardLibrary() string {
	return n.stdlib
}

// ScriptName computes the script name of sym. The only errors are
// alternate-signature failures (*errors.NamingError); callers fall back to
// DefaultName.
func (n *Namer) ScriptName(sym *symbols.Symbol) (string, error) {
	switch sym.Kind {
	case symbols.KindAssembly:
		return n.assemblyName(sym), nil
	case symbols.KindType:
		return n.typeName(sym), nil
	case symbols.KindField:
		if sym.IsEnumField() {
			return n.enumFieldName(sym), nil
		}
		return n.fieldName(sym), nil
	case symbols.KindMethod:
		return n.methodName(sym)
	case symbols.KindProperty, symbols.KindEvent:
		return n.DefaultName(sym), nil
	}
	return sym.Name, nil
}

// DirectiveName resolves a name from directives alone: ScriptAlias, then
// ScriptName, then PreserveCase on the symbol, its containing type or its
// assembly. The second result is false when no directive applies.
func (n *Namer) DirectiveName(sym *symbols.Symbol) (string, bool) {
	if v, ok := directives.GetValue[string](sym, directives.ScriptAlias); ok {
		return v, true
	}
	if v, ok := directives.GetValue[string](sym, directives.ScriptName); ok {
		return v, true
	}
	if preservesCase(sym) {
		return identifier(sym.Name), true
	}
	return "", false
}

func preservesCase(sym *symbols.Symbol) bool {
	if directives.GetFlagValue(sym, directives.PreserveCase) {
		return true
	}
	if sym.ContainingType != nil && directives.GetFlagValue(sym.ContainingType, directives.PreserveCase) {
		return true
	}
	if asm := sym.ContainingAssembly(); asm != nil && asm != sym {
		return directives.GetFlagValue(asm, directives.PreserveCase)
	}
	return false
}

// DefaultName is the directive name or, failing that, the lower-camel-cased
// identifier.
func (n *Namer) DefaultName(sym *symbols.Symbol) string {
	if name, ok := n.DirectiveName(sym); ok {
		return name
	}
	return LowerCamel(identifier(sym.Name))
}

func (n *Namer) assemblyName(sym *symbols.Symbol) string {
	if v, ok := directives.GetValue[string](sym, directives.ScriptAssembly); ok {
		return v
	}
	return sym.Name
}

// IsStandardLibrary reports whether sym is declared in the standard library
func (n *Namer) IsStandardLibrary(sym *symbols.Symbol) bool {
	asm := sym.ContainingAssembly()
	return asm != nil && asm.Name == n.stdlib
}

// NativeName returns the target-native name of a built-in type
func (n *Namer) NativeName(sym *symbols.Symbol) (string, bool) {
	switch sym.TypeKind {
	case symbols.TypeKindArray:
		return "Array", true
	case symbols.TypeKindDynamic:
		return "Object", true
	}
	if !n.IsStandardLibrary(sym) {
		return "", false
	}
	name, ok := n.native[sym.FullName()]
	return name, ok
}

func (n *Namer) typeName(sym *symbols.Symbol) string {
	if native, ok := n.NativeName(sym); ok {
		return native
	}
	base, ok := n.DirectiveName(sym)
	if !ok {
		base = sym.Name
	}
	if !n.IsStandardLibrary(sym) {
		return base
	}
	ns, ok := directives.GetValue[string](sym, directives.ScriptNamespace)
	if !ok {
		ns, ok = directives.GetValue[string](sym.ContainingAssembly(), directives.ScriptNamespace)
	}
	if ok && ns != "" {
		return ns + "." + base
	}
	return base
}

// EnumDefault applies the enum rename rule
func (n *Namer) EnumDefault(sym *symbols.Symbol) string {
	if n.rules.Enum == EnumMatchOriginalName {
		return sym.Name
	}
	return LowerCamel(sym.Name)
}

func (n *Namer) enumFieldName(sym *symbols.Symbol) string {
	if directives.GetFlagValue(sym.ContainingType, directives.NamedValues) {
		return n.EnumDefault(sym)
	}
	if name, ok := n.DirectiveName(sym); ok {
		return name
	}
	return n.EnumDefault(sym)
}

func (n *Namer) fieldName(sym *symbols.Symbol) string {
	if name, ok := n.DirectiveName(sym); ok {
		return name
	}
	name := LowerCamel(identifier(sym.Name))
	switch n.rules.Field {
	case FieldDollarPrefixPrivate:
		if sym.Accessibility == symbols.AccessibilityPrivate {
			return "$" + name
		}
	case FieldDollarPrefixOnDuplicateOnly:
		if n.isDuplicate(sym, name) {
			return "$" + name
		}
	}
	return name
}

// isDuplicate reports whether any other member of the containing type has
// the given default name.
func (n *Namer) isDuplicate(sym *symbols.Symbol, name string) bool {
	owner := sym.ContainingType
	if owner == nil {
		return false
	}
	defaults := n.memberDefaults(owner)
	for _, m := range owner.Members {
		if m != sym && defaults[m] == name {
			return true
		}
	}
	return false
}

func (n *Namer) memberDefaults(owner *symbols.Symbol) map[*symbols.Symbol]string {
	if cached, ok := n.defaults.Load(owner); ok {
		return cached.(map[*symbols.Symbol]string)
	}
	computed := make(map[*symbols.Symbol]string, len(owner.Members))
	for _, m := range owner.Members {
		computed[m] = n.DefaultName(m)
	}
	actual, _ := n.defaults.LoadOrStore(owner, computed)
	return actual.(map[*symbols.Symbol]string)
}

func (n *Namer) methodName(sym *symbols.Symbol) (string, error) {
	if name, ok := n.DirectiveName(sym); ok {
		return name, nil
	}
	base := identifier(sym.Name)
	if directives.IsImported(sym.ContainingType) {
		return LowerCamel(base), nil
	}
	if altsig.IsAlternateSignature(sym) {
		impl, ok := n.groups.ImplementingMethod(sym)
		if !ok {
			var err error
			impl, err = altsig.FindImplementing(sym)
			if err != nil {
				return "", err
			}
		}
		debug.LogNaming("%s borrows the name of %s\n", sym.DisplayString(), impl.DisplayString())
		return n.ScriptName(impl)
	}
	if !sym.MethodKind.IsOverloadable() {
		return LowerCamel(base), nil
	}

	idx := overloadIndex(sym)
	if idx <= 0 {
		return LowerCamel(base), nil
	}
	return LowerCamel(fmt.Sprintf("%s$%d", base, idx)), nil
}

// overloadIndex returns the position of sym among the overloadable
// same-staticness siblings sharing its default name, ordered by
// declaration.
func overloadIndex(sym *symbols.Symbol) int {
	def := LowerCamel(identifier(sym.Name))
	set := []*symbols.Symbol{sym}
	for _, sib := range sym.Siblings() {
		if sib.Kind != symbols.KindMethod || !sib.MethodKind.IsOverloadable() {
			continue
		}
		if sib.IsStatic != sym.IsStatic || altsig.IsAlternateSignature(sib) {
			continue
		}
		if LowerCamel(identifier(sib.Name)) == def {
			set = append(set, sib)
		}
	}
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].DeclarationOrder < set[j].DeclarationOrder
	})
	for i, m := range set {
		if m == sym {
			return i
		}
	}
	return -1
}
