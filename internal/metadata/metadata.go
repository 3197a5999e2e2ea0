// Package metadata defines the immutable per-symbol records describing how
// a symbol is rendered in script.
package metadata

import (
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Variant discriminates the metadata union
type Variant int

const (
	VariantAssembly Variant = iota
	VariantType
	VariantStruct
	VariantEnum
	VariantDelegate
	VariantField
	VariantProperty
	VariantMethod
	VariantEvent

	variantCount
)

var variantStrings = [variantCount]string{
	VariantAssembly: "assembly",
	VariantType:     "type",
	VariantStruct:   "struct",
	VariantEnum:     "enum",
	VariantDelegate: "delegate",
	VariantField:    "field",
	VariantProperty: "property",
	VariantMethod:   "method",
	VariantEvent:    "event",
}

func (v Variant) String() string {
	if v < 0 || v >= variantCount {
		return "unknown"
	}
	return variantStrings[v]
}

// Origin records which table tier produced a record
type Origin int

const (
	OriginDocument Origin = iota
	OriginDirectExternal
	OriginIndirectExternal
)

func (o Origin) String() string {
	switch o {
	case OriginDocument:
		return "document"
	case OriginDirectExternal:
		return "direct"
	case OriginIndirectExternal:
		return "indirect"
	}
	return "unknown"
}

// Metadata is implemented only by the variant types of this package
type Metadata interface {
	Variant() Variant
	Base() Common
	sealed()
}

// Common holds the fields every variant carries
type Common struct {
	// SourceSymbol is a back-reference to the symbol the record describes.
	SourceSymbol       *symbols.Symbol
	ComputedScriptName string
	Imported           bool
	PreserveCase       bool
	PreserveName       bool
	Reflectable        bool
	Origin             Origin
}

// Base returns the common fields
func (c Common) Base() Common { return c }

func (Common) sealed() {}

// Assembly metadata
type Assembly struct {
	Common
	ScriptAssemblyName string
	ScriptNamespace    string
}

// Type metadata for classes and interfaces
type Type struct {
	Common
	IsInterface            bool
	ScriptNamespace        string
	IgnoreNamespace        bool
	IgnoreGenericArguments bool
	GlobalMethods          bool
	ObjectLiteral          bool
	ScriptSkip             bool
}

// Struct metadata
type Struct struct {
	Common
	Mutable       bool
	ObjectLiteral bool
}

// Enum metadata
type Enum struct {
	Common
	NamedValues   bool
	NumericValues bool
	Flags         bool
}

// Delegate metadata
type Delegate struct {
	Common
	BindThisToFirstParameter bool
	ExpandParams             bool
}

// Field metadata, including enum fields and constants
type Field struct {
	Common
	IsEnumField       bool
	ConstantValue     string
	IntrinsicProperty bool
}

// Property metadata. Indexers are properties with parameters.
type Property struct {
	Common
	IntrinsicProperty bool
	ScriptAlias       string
	ScriptSkip        bool
}

// Method metadata. The InlineCode* fields carry the code templates of the
// InlineCode directive and its named arguments.
type Method struct {
	Common
	AlternateSignature            bool
	DontGenerate                  bool
	ExpandParams                  bool
	InlineCode                    string
	InlineCodeGeneratedMethodName string
	InlineCodeNonExpandedForm     string
	InlineCodeNonVirtual          string
	InstanceMethodOnFirstArgument bool
	IntrinsicOperator             bool
	ObjectLiteral                 bool
	ScriptAlias                   string
	ScriptSkip                    bool
}

// WithInlineCode returns a copy of m with the inline code replaced
func (m *Method) WithInlineCode(code string) *Method {
	c := *m
	c.InlineCode = code
	return &c
}

// Event metadata
type Event struct {
	Common
	ScriptSkip bool
}

func (*Assembly) Variant() Variant { return VariantAssembly }
func (*Type) Variant() Variant     { return VariantType }
func (*Struct) Variant() Variant   { return VariantStruct }
func (*Enum) Variant() Variant     { return VariantEnum }
func (*Delegate) Variant() Variant { return VariantDelegate }
func (*Field) Variant() Variant    { return VariantField }
func (*Property) Variant() Variant { return VariantProperty }
func (*Method) Variant() Variant   { return VariantMethod }
func (*Event) Variant() Variant    { return VariantEvent }

var (
	_ Metadata = (*Assembly)(nil)
	_ Metadata = (*Type)(nil)
	_ Metadata = (*Struct)(nil)
	_ Metadata = (*Enum)(nil)
	_ Metadata = (*Delegate)(nil)
	_ Metadata = (*Field)(nil)
	_ Metadata = (*Property)(nil)
	_ Metadata = (*Method)(nil)
	_ Metadata = (*Event)(nil)
)

// VariantOf returns the metadata variant a symbol maps to. Namespaces and
// placeholder or array types have none.
func VariantOf(sym *symbols.Symbol) (Variant, bool) {
	switch sym.Kind {
	case symbols.KindAssembly:
		return VariantAssembly, true
	case symbols.KindType:
		switch sym.TypeKind {
		case symbols.TypeKindClass, symbols.TypeKindInterface:
			return VariantType, true
		case symbols.TypeKindStruct:
			return VariantStruct, true
		case symbols.TypeKindEnum:
			return VariantEnum, true
		case symbols.TypeKindDelegate:
			return VariantDelegate, true
		}
	case symbols.KindField:
		return VariantField, true
	case symbols.KindProperty:
		return VariantProperty, true
	case symbols.KindMethod:
		return VariantMethod, true
	case symbols.KindEvent:
		return VariantEvent, true
	}
	return 0, false
}
