package symbols

// Kind represents the kind of symbol
type Kind int

const (
	KindUnknown Kind = iota
	KindAssembly
	KindNamespace
	KindType
	KindField
	KindProperty
	KindMethod
	KindEvent
)

var kindStrings = map[Kind]string{
	KindUnknown:   "unknown",
	KindAssembly:  "assembly",
	KindNamespace: "namespace",
	KindType:      "type",
	KindField:     "field",
	KindProperty:  "property",
	KindMethod:    "method",
	KindEvent:     "event",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return "unknown"
}

// TypeKind refines KindType symbols
type TypeKind int

const (
	TypeKindNone TypeKind = iota
	TypeKindClass
	TypeKindInterface
	TypeKindStruct
	TypeKindEnum
	TypeKindDelegate
	TypeKindArray
	TypeKindDynamic
	TypeKindTypeParameter
)

var typeKindStrings = map[TypeKind]string{
	TypeKindNone:          "none",
	TypeKindClass:         "class",
	TypeKindInterface:     "interface",
	TypeKindStruct:        "struct",
	TypeKindEnum:          "enum",
	TypeKindDelegate:      "delegate",
	TypeKindArray:         "array",
	TypeKindDynamic:       "dynamic",
	TypeKindTypeParameter: "type_parameter",
}

func (k TypeKind) String() string {
	if s, ok := typeKindStrings[k]; ok {
		return s
	}
	return "none"
}

// IsPlaceholder reports whether the type kind has no declaration of its own
// (dynamic, type parameters).
func (k TypeKind) IsPlaceholder() bool {
	return k == TypeKindDynamic || k == TypeKindTypeParameter
}

// MethodKind refines KindMethod symbols
type MethodKind int

const (
	MethodKindNone MethodKind = iota
	MethodKindOrdinary
	MethodKindConstructor
	MethodKindStaticConstructor
	MethodKindDestructor
	MethodKindPropertyGet
	MethodKindPropertySet
	MethodKindEventAdd
	MethodKindEventRemove
	MethodKindOperator
	MethodKindConversion
)

var methodKindStrings = map[MethodKind]string{
	MethodKindNone:              "none",
	MethodKindOrdinary:          "ordinary",
	MethodKindConstructor:       "constructor",
	MethodKindStaticConstructor: "static_constructor",
	MethodKindDestructor:        "destructor",
	MethodKindPropertyGet:       "property_get",
	MethodKindPropertySet:       "property_set",
	MethodKindEventAdd:          "event_add",
	MethodKindEventRemove:       "event_remove",
	MethodKindOperator:          "operator",
	MethodKindConversion:        "conversion",
}

func (k MethodKind) String() string {
	if s, ok := methodKindStrings[k]; ok {
		return s
	}
	return "none"
}

// IsOverloadable reports whether methods of this kind take part in overload
// suffixing. Only ordinary methods and constructors do.
func (k MethodKind) IsOverloadable() bool {
	return k == MethodKindOrdinary || k == MethodKindConstructor
}

// Accessibility is the declared visibility of a symbol
type Accessibility int

const (
	AccessibilityNotApplicable Accessibility = iota
	AccessibilityPrivate
	AccessibilityPrivateProtected
	AccessibilityProtected
	AccessibilityInternal
	AccessibilityProtectedInternal
	AccessibilityPublic
)

var accessibilityStrings = map[Accessibility]string{
	AccessibilityNotApplicable:     "",
	AccessibilityPrivate:           "private",
	AccessibilityPrivateProtected:  "private protected",
	AccessibilityProtected:         "protected",
	AccessibilityInternal:          "internal",
	AccessibilityProtectedInternal: "protected internal",
	AccessibilityPublic:            "public",
}

func (a Accessibility) String() string {
	return accessibilityStrings[a]
}

// ParseAccessibility maps a modifier string to an Accessibility.
// Unknown input yields AccessibilityNotApplicable.
func ParseAccessibility(s string) Accessibility {
	for a, name := range accessibilityStrings {
		if name != "" && name == s {
			return a
		}
	}
	return AccessibilityNotApplicable
}
