package csharp

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// refKind classifies a reference site
type refKind int

const (
	// refType is a type written in a type position. It is reported when it
	// does not resolve.
	refType refKind = iota
	// refConstruct is `new T(...)`
	refConstruct
	// refMember is `T.Member` or `T.Member(...)` in expression position, or
	// an unqualified call that may bind through `using static`. An owner
	// that does not bind is reported only when it cannot be a value or a
	// namespace.
	refMember
)

// reference is one reference site awaiting resolution
type reference struct {
	kind   refKind
	typ    *typeRef
	member string
	// args is the argument count of an invocation, -1 otherwise
	args  int
	scope *scope
	loc   symbols.Location
}

// scope is the lexical context a reference is resolved in
type scope struct {
	namespace  string
	enclosing  *symbols.Symbol
	typeParams map[string]bool
}

func (s *scope) with(enclosing *symbols.Symbol, typeParams []string) *scope {
	out := &scope{namespace: s.namespace, enclosing: s.enclosing, typeParams: s.typeParams}
	if enclosing != nil {
		out.enclosing = enclosing
	}
	if len(typeParams) > 0 {
		merged := make(map[string]bool, len(s.typeParams)+len(typeParams))
		for k := range s.typeParams {
			merged[k] = true
		}
		for _, p := range typeParams {
			merged[p] = true
		}
		out.typeParams = merged
	}
	return out
}

// file is what extraction produced for one source file
type file struct {
	unit          *symbols.Unit
	usings        []string
	aliases       map[string]*typeRef
	staticUsings  []*typeRef
	refs          []reference
	assemblyAttrs []symbols.Attribute
	diags         []diagnostics.Diagnostic
	// partial holds the declarations carrying the partial modifier
	partial map[*symbols.Symbol]bool
	// values holds the names of locals, parameters and other variables
	// declared anywhere in the file
	values map[string]bool
}

// extractor turns one syntax tree into symbols
type extractor struct {
	path        string
	content     []byte
	asm         *symbols.Symbol
	collectRefs bool
	f           *file
}

func newExtractor(src Source, asm *symbols.Symbol, collectRefs bool) *extractor {
	return &extractor{
		path:        src.Path,
		content:     src.Content,
		asm:         asm,
		collectRefs: collectRefs,
		f: &file{
			unit:    &symbols.Unit{Path: src.Path, Assembly: asm},
			aliases: make(map[string]*typeRef),
			partial: make(map[*symbols.Symbol]bool),
			values:  make(map[string]bool),
		},
	}
}

func (e *extractor) text(node *sitter.Node) string {
	return nodeText(node, e.content)
}

func (e *extractor) loc(node *sitter.Node) symbols.Location {
	return nodeLocation(node, e.path)
}

// container extracts the declarations of a compilation unit or namespace
// body.
func (e *extractor) container(node *sitter.Node, ns string) {
	if node == nil {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "using_directive":
			e.using(child)
		case "global_attribute", "global_attribute_list":
			e.f.assemblyAttrs = append(e.f.assemblyAttrs, e.attributeList(child)...)
		case "attribute_list":
			if target := findChild(child, "attribute_target_specifier"); target != nil && strings.HasPrefix(e.text(target), "assembly") {
				e.f.assemblyAttrs = append(e.f.assemblyAttrs, e.attributeList(child)...)
			}
		case "namespace_declaration":
			body := child.ChildByFieldName("body")
			if body == nil {
				body = findChild(child, "declaration_list")
			}
			e.container(body, qualify(ns, e.namespaceName(child)))
		case "file_scoped_namespace_declaration":
			// later siblings belong to the namespace as well
			ns = qualify(ns, e.namespaceName(child))
			e.container(child, ns)
		default:
			if t := e.typeDecl(child, &scope{namespace: ns}, nil); t != nil {
				t.DeclarationOrder = len(e.f.unit.Types)
				e.f.unit.Types = append(e.f.unit.Types, t)
			}
		}
	}
}

func (e *extractor) namespaceName(node *sitter.Node) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		name = findChild(node, "qualified_name", "identifier")
	}
	return normalizeType(e.text(name))
}

func qualify(ns, name string) string {
	switch {
	case ns == "":
		return name
	case name == "":
		return ns
	}
	return ns + "." + name
}

// using records a using directive:
//
//	using System.Collections.Generic;
//	using static System.Math;
//	using Map = System.Collections.Generic.Dictionary<string, int>;
func (e *extractor) using(node *sitter.Node) {
	text := strings.TrimSuffix(strings.TrimSpace(e.text(node)), ";")
	text = strings.TrimSpace(strings.TrimPrefix(text, "global "))
	text = strings.TrimSpace(strings.TrimPrefix(text, "using"))

	switch {
	case strings.HasPrefix(text, "static "):
		if ref := parseTypeRef(strings.TrimPrefix(text, "static ")); ref != nil {
			e.f.staticUsings = append(e.f.staticUsings, ref)
		}
	case strings.Contains(text, "="):
		i := strings.Index(text, "=")
		alias := strings.TrimSpace(text[:i])
		if ref := parseTypeRef(text[i+1:]); ref != nil && alias != "" {
			e.f.aliases[alias] = ref
		}
	default:
		ns := strings.TrimPrefix(strings.Join(strings.Fields(text), ""), "global::")
		if ns != "" {
			e.f.usings = append(e.f.usings, ns)
		}
	}
}

var typeDeclKinds = map[string]symbols.TypeKind{
	"class_declaration":         symbols.TypeKindClass,
	"record_declaration":        symbols.TypeKindClass,
	"interface_declaration":     symbols.TypeKindInterface,
	"struct_declaration":        symbols.TypeKindStruct,
	"record_struct_declaration": symbols.TypeKindStruct,
	"enum_declaration":          symbols.TypeKindEnum,
	"delegate_declaration":      symbols.TypeKindDelegate,
}

// typeDecl extracts a type declaration and its members. It returns nil
// for nodes that do not declare a type.
func (e *extractor) typeDecl(node *sitter.Node, outer *scope, container *symbols.Symbol) *symbols.Symbol {
	tk, ok := typeDeclKinds[node.Kind()]
	if !ok {
		return nil
	}
	name := nameNode(node)
	if name == nil {
		return nil
	}
	if node.Kind() == "record_declaration" && findChild(node, "struct") != nil {
		tk = symbols.TypeKindStruct
	}

	mods := e.modifiers(node)
	t := &symbols.Symbol{
		Name:           e.text(name),
		Kind:           symbols.KindType,
		TypeKind:       tk,
		Accessibility:  mods.accessibility(defaultTypeAccessibility(container)),
		IsStatic:       mods["static"],
		IsAbstract:     mods["abstract"] || tk == symbols.TypeKindInterface,
		ContainingType: container,
		Attributes:     e.attributes(node),
		TypeArguments:  e.typeParameters(node),
		Location:       e.loc(name),
	}
	if container == nil {
		t.Namespace = outer.namespace
		t.Assembly = e.asm
	}
	if mods["partial"] {
		e.f.partial[t] = true
	}
	sc := outer.with(t, t.TypeArguments)

	if bases := findChild(node, "base_list"); bases != nil {
		for i := uint(0); i < bases.NamedChildCount(); i++ {
			base := bases.NamedChild(i)
			if base.Kind() == "primary_constructor_base_type" {
				base = typeNode(base)
				if base == nil {
					base = findChild(bases.NamedChild(i), "identifier", "qualified_name", "generic_name")
				}
			}
			if isTypeNode(base) {
				e.typeRef(base, sc)
			}
		}
	}

	switch tk {
	case symbols.TypeKindEnum:
		e.enumMembers(node, t)
	case symbols.TypeKindDelegate:
		e.typeRef(typeNode(node), sc)
		e.addMember(t, &symbols.Symbol{
			Name:           "Invoke",
			Kind:           symbols.KindMethod,
			MethodKind:     symbols.MethodKindOrdinary,
			Accessibility:  symbols.AccessibilityPublic,
			ContainingType: t,
			Parameters:     e.parameters(node, sc),
			Location:       t.Location,
		})
	default:
		e.primaryConstructor(node, t, sc)
		body := node.ChildByFieldName("body")
		if body == nil {
			body = findChild(node, "declaration_list")
		}
		e.members(body, t, sc)
	}
	return t
}

func defaultTypeAccessibility(container *symbols.Symbol) symbols.Accessibility {
	switch {
	case container == nil:
		return symbols.AccessibilityInternal
	case container.TypeKind == symbols.TypeKindInterface:
		return symbols.AccessibilityPublic
	}
	return symbols.AccessibilityPrivate
}

func defaultMemberAccessibility(owner *symbols.Symbol) symbols.Accessibility {
	if owner.TypeKind == symbols.TypeKindInterface {
		return symbols.AccessibilityPublic
	}
	return symbols.AccessibilityPrivate
}

func (e *extractor) addMember(t, m *symbols.Symbol) {
	m.ContainingType = t
	m.DeclarationOrder = len(t.Members)
	t.Members = append(t.Members, m)
}

// primaryConstructor handles `record Point(int X, int Y)` and C# 12
// primary constructors. Positional record parameters also become public
// properties.
func (e *extractor) primaryConstructor(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	list := findChild(node, "parameter_list")
	if list == nil {
		return
	}
	params := e.parameterList(list, sc)
	if strings.HasPrefix(node.Kind(), "record") {
		for _, p := range params {
			e.addMember(t, &symbols.Symbol{
				Name:          p.Name,
				Kind:          symbols.KindProperty,
				Accessibility: symbols.AccessibilityPublic,
				Location:      e.loc(list),
			})
		}
	}
	e.addMember(t, &symbols.Symbol{
		Name:          symbols.ConstructorName,
		Kind:          symbols.KindMethod,
		MethodKind:    symbols.MethodKindConstructor,
		Accessibility: symbols.AccessibilityPublic,
		Parameters:    params,
		Location:      e.loc(list),
	})
}

func (e *extractor) enumMembers(node *sitter.Node, t *symbols.Symbol) {
	body := node.ChildByFieldName("body")
	if body == nil {
		body = findChild(node, "enum_member_declaration_list")
	}

	next, known := int64(0), true
	for _, decl := range findChildren(body, "enum_member_declaration") {
		name := nameNode(decl)
		if name == nil {
			continue
		}
		f := &symbols.Symbol{
			Name:          e.text(name),
			Kind:          symbols.KindField,
			Accessibility: symbols.AccessibilityPublic,
			IsStatic:      true,
			Attributes:    e.attributes(decl),
			Location:      e.loc(name),
		}
		if v := valueAfterEquals(decl); v != nil {
			if n, ok := literalValue(v, e.content).(int64); ok {
				next, known = n, true
			} else {
				known = false
				f.ConstantValue = constantText(e.text(v))
			}
		}
		if known {
			f.ConstantValue = strconv.FormatInt(next, 10)
			next++
		}
		e.addMember(t, f)
	}
}

// members extracts the member declarations of a type body
func (e *extractor) members(body *sitter.Node, t *symbols.Symbol, sc *scope) {
	if body == nil {
		return
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "field_declaration":
			e.fields(child, t, sc, symbols.KindField)
		case "event_field_declaration":
			e.fields(child, t, sc, symbols.KindEvent)
		case "property_declaration", "event_declaration":
			e.property(child, t, sc)
		case "indexer_declaration":
			e.indexer(child, t, sc)
		case "method_declaration":
			e.method(child, t, sc)
		case "constructor_declaration":
			e.constructor(child, t, sc)
		case "destructor_declaration":
			e.destructor(child, t, sc)
		case "operator_declaration", "conversion_operator_declaration":
			e.operator(child, t, sc)
		default:
			if nested := e.typeDecl(child, sc, t); nested != nil {
				e.addMember(t, nested)
			}
		}
	}
}

func (e *extractor) fields(node *sitter.Node, t *symbols.Symbol, sc *scope, kind symbols.Kind) {
	decl := findChild(node, "variable_declaration")
	if decl == nil {
		return
	}
	mods := e.modifiers(node)
	attrs := e.attributes(node)
	e.typeRef(typeNode(decl), sc)

	for _, v := range findChildren(decl, "variable_declarator") {
		name := nameNode(v)
		if name == nil {
			continue
		}
		f := &symbols.Symbol{
			Name:          e.text(name),
			Kind:          kind,
			Accessibility: mods.accessibility(defaultMemberAccessibility(t)),
			IsStatic:      mods["static"] || mods["const"],
			Attributes:    attrs,
			Location:      e.loc(name),
		}
		if init := valueAfterEquals(v); init != nil {
			if mods["const"] {
				f.ConstantValue = constantText(e.text(init))
			}
			e.body(init, sc)
		}
		e.addMember(t, f)
	}
}

func (e *extractor) property(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	name := nameNode(node)
	if name == nil {
		return
	}
	kind := symbols.KindProperty
	if node.Kind() == "event_declaration" {
		kind = symbols.KindEvent
	}
	mods := e.modifiers(node)
	p := &symbols.Symbol{
		Name:          e.text(name),
		Kind:          kind,
		Accessibility: mods.accessibility(defaultMemberAccessibility(t)),
		IsStatic:      mods["static"],
		IsAbstract:    mods["abstract"],
		Attributes:    e.attributes(node),
		Location:      e.loc(name),
	}
	e.typeRef(typeNode(node), sc)
	e.memberBodies(node, sc)
	if init := valueAfterEquals(node); init != nil {
		e.body(init, sc)
	}
	e.addMember(t, p)
}

// defaultIndexerName is the member name the compiler gives indexers
const defaultIndexerName = "Item"

func (e *extractor) indexer(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	mods := e.modifiers(node)
	attrs := e.attributes(node)
	name := defaultIndexerName
	for _, a := range attrs {
		if a.SimpleName() == "IndexerName" && len(a.Arguments) == 1 {
			if s, ok := a.Arguments[0].(string); ok && s != "" {
				name = s
			}
		}
	}
	p := &symbols.Symbol{
		Name:          name,
		Kind:          symbols.KindProperty,
		Accessibility: mods.accessibility(defaultMemberAccessibility(t)),
		IsAbstract:    mods["abstract"],
		Attributes:    attrs,
		Parameters:    e.parameterList(findChild(node, "bracketed_parameter_list"), sc),
		Location:      e.loc(node),
	}
	e.typeRef(typeNode(node), sc)
	e.memberBodies(node, sc)
	e.addMember(t, p)
}

func (e *extractor) method(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	name := nameNode(node)
	if name == nil {
		return
	}
	mods := e.modifiers(node)
	typeParams := e.typeParameters(node)
	msc := sc.with(nil, typeParams)
	params := e.parameters(node, msc)

	m := &symbols.Symbol{
		Name:          e.text(name),
		Kind:          symbols.KindMethod,
		MethodKind:    symbols.MethodKindOrdinary,
		Accessibility: mods.accessibility(defaultMemberAccessibility(t)),
		IsStatic:      mods["static"],
		IsAbstract:    mods["abstract"] || (t.TypeKind == symbols.TypeKindInterface && !hasBody(node)),
		Attributes:    e.attributes(node),
		Parameters:    params,
		TypeArguments: typeParams,
		Location:      e.loc(name),
	}
	m.IsExtensionMethod = m.IsStatic && len(params) > 0 && params[0].IsThis
	e.typeRef(typeNode(node), msc)
	e.memberBodies(node, msc)
	e.addMember(t, m)
}

func (e *extractor) constructor(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	name := nameNode(node)
	mods := e.modifiers(node)
	c := &symbols.Symbol{
		Name:          symbols.ConstructorName,
		Kind:          symbols.KindMethod,
		MethodKind:    symbols.MethodKindConstructor,
		Accessibility: mods.accessibility(symbols.AccessibilityPrivate),
		Attributes:    e.attributes(node),
		Parameters:    e.parameters(node, sc),
		Location:      e.loc(name),
	}
	if mods["static"] {
		c.Name = symbols.StaticConstructorName
		c.MethodKind = symbols.MethodKindStaticConstructor
		c.IsStatic = true
	}
	e.memberBodies(node, sc)
	e.addMember(t, c)
}

func (e *extractor) destructor(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	e.memberBodies(node, sc)
	e.addMember(t, &symbols.Symbol{
		Name:          "Finalize",
		Kind:          symbols.KindMethod,
		MethodKind:    symbols.MethodKindDestructor,
		Accessibility: symbols.AccessibilityProtected,
		Attributes:    e.attributes(node),
		Location:      e.loc(nameNode(node)),
	})
}

// operatorNames are the metadata names of overloadable operators
var operatorNames = map[string]string{
	"+":     "op_Addition",
	"-":     "op_Subtraction",
	"*":     "op_Multiply",
	"/":     "op_Division",
	"%":     "op_Modulus",
	"&":     "op_BitwiseAnd",
	"|":     "op_BitwiseOr",
	"^":     "op_ExclusiveOr",
	"<<":    "op_LeftShift",
	">>":    "op_RightShift",
	">>>":   "op_UnsignedRightShift",
	"==":    "op_Equality",
	"!=":    "op_Inequality",
	"<":     "op_LessThan",
	">":     "op_GreaterThan",
	"<=":    "op_LessThanOrEqual",
	">=":    "op_GreaterThanOrEqual",
	"!":     "op_LogicalNot",
	"~":     "op_OnesComplement",
	"++":    "op_Increment",
	"--":    "op_Decrement",
	"true":  "op_True",
	"false": "op_False",
}

func (e *extractor) operator(node *sitter.Node, t *symbols.Symbol, sc *scope) {
	params := e.parameters(node, sc)
	op := &symbols.Symbol{
		Kind:          symbols.KindMethod,
		MethodKind:    symbols.MethodKindOperator,
		Accessibility: symbols.AccessibilityPublic,
		IsStatic:      true,
		Attributes:    e.attributes(node),
		Parameters:    params,
		Location:      e.loc(node),
	}

	if node.Kind() == "conversion_operator_declaration" {
		op.MethodKind = symbols.MethodKindConversion
		op.Name = "op_Implicit"
		if findChild(node, "explicit") != nil {
			op.Name = "op_Explicit"
		}
	} else {
		token := e.operatorToken(node)
		op.Name = operatorNames[token]
		if op.Name == "" {
			op.Name = "op_" + token
		}
		if len(params) == 1 {
			switch token {
			case "+":
				op.Name = "op_UnaryPlus"
			case "-":
				op.Name = "op_UnaryNegation"
			}
		}
	}
	e.typeRef(typeNode(node), sc)
	e.memberBodies(node, sc)
	e.addMember(t, op)
}

func (e *extractor) operatorToken(node *sitter.Node) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return e.text(op)
	}
	seen := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if seen {
			return e.text(child)
		}
		seen = child.Kind() == "operator"
	}
	return ""
}

func hasBody(node *sitter.Node) bool {
	return node.ChildByFieldName("body") != nil || findChild(node, "block", "arrow_expression_clause") != nil
}

// bodyKinds are the member children that hold code
var bodyKinds = map[string]bool{
	"block":                   true,
	"arrow_expression_clause": true,
	"accessor_list":           true,
	"constructor_initializer": true,
}

func (e *extractor) memberBodies(node *sitter.Node, sc *scope) {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && bodyKinds[child.Kind()] {
			e.body(child, sc)
		}
	}
}

// valueAfterEquals returns the initializer expression of a declarator,
// property or enum member.
func valueAfterEquals(node *sitter.Node) *sitter.Node {
	if v := node.ChildByFieldName("value"); v != nil {
		return v
	}
	if clause := findChild(node, "equals_value_clause"); clause != nil && clause.NamedChildCount() > 0 {
		return clause.NamedChild(clause.NamedChildCount() - 1)
	}
	seen := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if seen && child.IsNamed() {
			return child
		}
		if child.Kind() == "=" {
			seen = true
		}
	}
	return nil
}

func constantText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (e *extractor) typeParameters(node *sitter.Node) []string {
	list := node.ChildByFieldName("type_parameters")
	if list == nil {
		list = findChild(node, "type_parameter_list")
	}
	var out []string
	for _, p := range findChildren(list, "type_parameter") {
		if name := nameNode(p); name != nil {
			out = append(out, e.text(name))
		}
	}
	return out
}

func (e *extractor) parameters(node *sitter.Node, sc *scope) []symbols.Parameter {
	list := node.ChildByFieldName("parameters")
	if list == nil {
		list = findChild(node, "parameter_list")
	}
	return e.parameterList(list, sc)
}

func (e *extractor) parameterList(list *sitter.Node, sc *scope) []symbols.Parameter {
	if list == nil {
		return nil
	}
	var out []symbols.Parameter
	for i := uint(0); i < list.ChildCount(); i++ {
		node := list.Child(i)
		if node == nil {
			continue
		}
		if node.Kind() == "params" {
			// `params T[] name` without a wrapping node: type and name follow
			p := symbols.Parameter{IsParams: true}
			if typ := list.Child(i + 1); typ != nil && typ.IsNamed() {
				i++
				p.TypeName = typeText(typ, e.content)
				e.typeRef(typ, sc)
				if name := list.Child(i + 1); name != nil && name.Kind() == "identifier" {
					i++
					p.Name = e.text(name)
				}
			}
			out = append(out, p)
			continue
		}
		if node.Kind() != "parameter" && node.Kind() != "parameter_array" {
			continue
		}
		p := symbols.Parameter{IsParams: node.Kind() == "parameter_array"}
		name := nameNode(node)
		if name != nil {
			p.Name = e.text(name)
		}
		typ := typeNode(node)

		prefix := ""
		for j := uint(0); j < node.ChildCount(); j++ {
			child := node.Child(j)
			if child == nil || child.Kind() == "attribute_list" || isTypeNode(child) {
				continue
			}
			if name != nil && child.StartByte() >= name.StartByte() {
				break
			}
			for _, word := range strings.Fields(e.text(child)) {
				switch word {
				case "this":
					p.IsThis = true
				case "params":
					p.IsParams = true
				case "ref", "out", "in":
					prefix = word + " "
				}
			}
		}
		p.TypeName = prefix + typeText(typ, e.content)
		e.typeRef(typ, sc)
		out = append(out, p)
	}
	for _, p := range out {
		if p.Name != "" {
			e.f.values[p.Name] = true
		}
	}
	return out
}

type modifierSet map[string]bool

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "abstract": true, "virtual": true, "override": true,
	"sealed": true, "partial": true, "async": true, "readonly": true,
	"const": true, "extern": true, "new": true, "unsafe": true,
	"volatile": true, "required": true, "file": true,
}

func (e *extractor) modifiers(node *sitter.Node) modifierSet {
	mods := make(modifierSet)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch kind := child.Kind(); {
		case kind == "modifier":
			for _, word := range strings.Fields(e.text(child)) {
				mods[word] = true
			}
		case modifierKeywords[kind]:
			mods[kind] = true
		}
	}
	return mods
}

func (m modifierSet) accessibility(def symbols.Accessibility) symbols.Accessibility {
	switch {
	case m["protected"] && m["internal"]:
		return symbols.AccessibilityProtectedInternal
	case m["private"] && m["protected"]:
		return symbols.AccessibilityPrivateProtected
	case m["public"]:
		return symbols.AccessibilityPublic
	case m["protected"]:
		return symbols.AccessibilityProtected
	case m["internal"]:
		return symbols.AccessibilityInternal
	case m["private"]:
		return symbols.AccessibilityPrivate
	}
	return def
}

// attributes returns the attributes applied to a declaration. Lists with
// an explicit target (`[return: X]`) apply to something else and are
// skipped.
func (e *extractor) attributes(node *sitter.Node) []symbols.Attribute {
	var out []symbols.Attribute
	for _, list := range findChildren(node, "attribute_list") {
		if findChild(list, "attribute_target_specifier") != nil {
			continue
		}
		out = append(out, e.attributeList(list)...)
	}
	return out
}

func (e *extractor) attributeList(list *sitter.Node) []symbols.Attribute {
	var out []symbols.Attribute
	for _, node := range findChildren(list, "attribute") {
		out = append(out, e.attribute(node))
	}
	return out
}

func (e *extractor) attribute(node *sitter.Node) symbols.Attribute {
	name := node.ChildByFieldName("name")
	if name == nil && node.NamedChildCount() > 0 {
		name = node.NamedChild(0)
	}
	attr := symbols.Attribute{
		Name:     normalizeType(e.text(name)),
		Location: e.loc(node),
	}

	args := findChild(node, "attribute_argument_list")
	for _, arg := range findChildren(args, "attribute_argument") {
		argName, value := e.attributeArgument(arg)
		if argName != "" {
			attr.NamedArguments = append(attr.NamedArguments, symbols.NamedArgument{Name: argName, Value: value})
		} else {
			attr.Arguments = append(attr.Arguments, value)
		}
	}
	return attr
}

// attributeArgument returns the name of a `Name = value` argument (empty for
// positional ones) and the normalized value.
func (e *extractor) attributeArgument(arg *sitter.Node) (string, any) {
	n := arg.NamedChildCount()
	if n == 0 {
		return "", nil
	}
	value := arg.NamedChild(n - 1)

	if ne := findChild(arg, "name_equals"); ne != nil {
		return e.text(findChild(ne, "identifier")), literalValue(value, e.content)
	}
	if findChild(arg, "=") != nil && n >= 2 && arg.NamedChild(0).Kind() == "identifier" {
		return e.text(arg.NamedChild(0)), literalValue(value, e.content)
	}
	if value.Kind() == "assignment_expression" {
		left, right := value.ChildByFieldName("left"), value.ChildByFieldName("right")
		if left != nil && right != nil && left.Kind() == "identifier" {
			return e.text(left), literalValue(right, e.content)
		}
	}
	return "", literalValue(value, e.content)
}

// typeRef records a type written in a type position
func (e *extractor) typeRef(node *sitter.Node, sc *scope) {
	if node == nil || !e.collectRefs {
		return
	}
	if ref := parseTypeRef(e.text(node)); ref != nil {
		e.f.refs = append(e.f.refs, reference{kind: refType, typ: ref, args: -1, scope: sc, loc: e.loc(node)})
	}
}

// typedKinds are expressions and statements that carry a "type" field
var typedKinds = map[string]bool{
	"typeof_expression":         true,
	"cast_expression":           true,
	"default_expression":        true,
	"sizeof_expression":         true,
	"array_creation_expression": true,
	"variable_declaration":      true,
	"declaration_expression":    true,
	"foreach_statement":         true,
	"catch_declaration":         true,
	"parameter":                 true,
	"as_expression":             true,
}

// body collects the references made from code
func (e *extractor) body(node *sitter.Node, sc *scope) {
	if node == nil || !e.collectRefs {
		return
	}
	e.declaredValue(node)

	switch kind := node.Kind(); {
	case kind == "object_creation_expression":
		typ := node.ChildByFieldName("type")
		if typ == nil {
			typ = typeNode(node)
		}
		if typ != nil {
			if ref := parseTypeRef(e.text(typ)); ref != nil {
				e.f.refs = append(e.f.refs, reference{
					kind:  refConstruct,
					typ:   ref,
					args:  argumentCount(node),
					scope: sc,
					loc:   e.loc(typ),
				})
			}
		}
		e.bodyExcept(node, typ, sc)
		return

	case kind == "invocation_expression":
		fn := node.ChildByFieldName("function")
		if fn == nil && node.NamedChildCount() > 0 {
			fn = node.NamedChild(0)
		}
		args := argumentCount(node)
		switch {
		case fn == nil:
		case fn.Kind() == "member_access_expression":
			e.memberAccess(fn, args, sc)
			e.body(fn.ChildByFieldName("expression"), sc)
			e.bodyExcept(node, fn, sc)
			return
		case fn.Kind() == "identifier" || fn.Kind() == "generic_name":
			e.f.refs = append(e.f.refs, reference{
				kind:   refMember,
				member: e.simpleName(fn),
				args:   args,
				scope:  sc,
				loc:    e.loc(fn),
			})
		}

	case kind == "member_access_expression":
		e.memberAccess(node, -1, sc)

	case kind == "local_function_statement":
		lsc := sc.with(nil, e.typeParameters(node))
		typ := typeNode(node)
		e.typeRef(typ, lsc)
		e.bodyExcept(node, typ, lsc)
		return

	case typedKinds[kind]:
		typ := node.ChildByFieldName("type")
		if typ == nil && kind == "as_expression" {
			typ = node.ChildByFieldName("right")
		}
		if typ == nil && kind != "parameter" {
			typ = typeNode(node)
		}
		if typ != nil && isTypeNode(typ) {
			e.typeRef(typ, sc)
			e.bodyExcept(node, typ, sc)
			return
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.body(node.Child(i), sc)
	}
}

// declaredValue records the variable a node declares, if any
func (e *extractor) declaredValue(node *sitter.Node) {
	var name *sitter.Node
	switch node.Kind() {
	case "variable_declarator", "parameter", "catch_declaration":
		name = nameNode(node)
	case "foreach_statement":
		name = node.ChildByFieldName("left")
	case "lambda_expression":
		name = node.ChildByFieldName("parameters")
	case "single_variable_designation":
		name = node
	}
	if name != nil && name.Kind() == "identifier" {
		e.f.values[e.text(name)] = true
	}
}

func (e *extractor) bodyExcept(node, skip *sitter.Node, sc *scope) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || (skip != nil && sameNode(child, skip)) {
			continue
		}
		e.body(child, sc)
	}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// memberAccess records `Owner.Member` when Owner is spelled like a type
func (e *extractor) memberAccess(node *sitter.Node, args int, sc *scope) {
	owner := node.ChildByFieldName("expression")
	name := node.ChildByFieldName("name")
	if owner == nil || name == nil {
		return
	}
	switch owner.Kind() {
	case "identifier", "qualified_name", "generic_name", "predefined_type", "member_access_expression", "alias_qualified_name":
	default:
		return
	}
	ref := parseTypeRef(e.text(owner))
	if ref == nil {
		return
	}
	e.f.refs = append(e.f.refs, reference{
		kind:   refMember,
		typ:    ref,
		member: e.simpleName(name),
		args:   args,
		scope:  sc,
		loc:    e.loc(name),
	})
}

// simpleName drops type arguments from a generic name
func (e *extractor) simpleName(node *sitter.Node) string {
	if node.Kind() == "generic_name" {
		if id := findChild(node, "identifier"); id != nil {
			return e.text(id)
		}
	}
	return e.text(node)
}

func argumentCount(node *sitter.Node) int {
	list := node.ChildByFieldName("arguments")
	if list == nil {
		list = findChild(node, "argument_list")
	}
	return len(findChildren(list, "argument"))
}
