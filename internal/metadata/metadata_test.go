package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/directives"
	"github.com/standardbeagle/scriptsym/internal/naming"
	"github.com/standardbeagle/scriptsym/internal/symbols"
	th "github.com/standardbeagle/scriptsym/testhelpers"
)

func TestBuildersAreTotal(t *testing.T) {
	for v := Variant(0); v < variantCount; v++ {
		assert.NotNil(t, builders[v], "variant %s has no builder", v)
		assert.NotEqual(t, "", variantStrings[v], "variant %d has no name", v)
	}
}

func TestBuild_Variants(t *testing.T) {
	asm := symbols.NewAssembly("App", th.Attr(directives.ScriptAssembly, "app"))
	widget := th.Class(asm, "App", "Widget")
	method := widget.Method("Render")
	field := widget.Field("Size")
	prop := widget.Property("Color")
	event := widget.Event("Changed")
	point := th.Struct(asm, "App", "Point").Attr(th.Attr(directives.Mutable))
	mode := th.Enum(asm, "App", "Mode")
	member := mode.Field("Fast", th.Static(), th.Constant("1"))
	handler := th.Delegate(asm, "App", "Handler").Attr(th.Attr(directives.BindThisToFirstParameter))
	iface := th.Interface(asm, "App", "IShape")

	n := naming.New(naming.DefaultRules())
	tests := []struct {
		sym     *symbols.Symbol
		variant Variant
		name    string
	}{
		{asm, VariantAssembly, "app"},
		{widget.Build(), VariantType, "Widget"},
		{iface.Build(), VariantType, "IShape"},
		{point.Build(), VariantStruct, "Point"},
		{mode.Build(), VariantEnum, "Mode"},
		{handler.Build(), VariantDelegate, "Handler"},
		{method, VariantMethod, "render"},
		{field, VariantField, "size"},
		{member, VariantField, "fast"},
		{prop, VariantProperty, "color"},
		{event, VariantEvent, "changed"},
	}
	for _, tt := range tests {
		t.Run(tt.sym.DisplayString(), func(t *testing.T) {
			md, diags := Build(tt.sym, n, OriginDocument)
			require.NotNil(t, md)
			assert.Empty(t, diags)
			assert.Equal(t, tt.variant, md.Variant())
			assert.Same(t, tt.sym, md.Base().SourceSymbol)
			assert.Equal(t, tt.name, md.Base().ComputedScriptName)
			assert.Equal(t, OriginDocument, md.Base().Origin)
		})
	}

	md, _ := Build(point.Build(), n, OriginDocument)
	assert.True(t, md.(*Struct).Mutable)

	md, _ = Build(handler.Build(), n, OriginDocument)
	assert.True(t, md.(*Delegate).BindThisToFirstParameter)

	md, _ = Build(iface.Build(), n, OriginDocument)
	assert.True(t, md.(*Type).IsInterface)

	md, _ = Build(member, n, OriginDocument)
	f := md.(*Field)
	assert.True(t, f.IsEnumField)
	assert.Equal(t, "1", f.ConstantValue)
}

func TestBuild_NoVariant(t *testing.T) {
	n := naming.New(naming.DefaultRules())
	md, diags := Build(th.Dynamic(), n, OriginDocument)
	assert.Nil(t, md)
	assert.Nil(t, diags)

	md, _ = Build(&symbols.Symbol{Name: "App", Kind: symbols.KindNamespace}, n, OriginDocument)
	assert.Nil(t, md)
}

func TestBuild_MethodDirectives(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget").Attr(th.Attr(directives.Imported))
	format := widget.Method("Format", th.WithAttrs(
		th.NamedAttr(directives.InlineCode, []any{"{this}.fmt({*args})"},
			th.Arg(directives.ArgNonVirtualCode, "fmt({this}, {*args})"),
			th.Arg(directives.ArgGeneratedMethodName, "fmt"),
		),
		th.Attr(directives.IntrinsicOperator),
		th.Attr(directives.ScriptSkip, false),
	))

	md, diags := Build(format, naming.New(naming.DefaultRules()), OriginDirectExternal)
	require.Empty(t, diags)
	m := md.(*Method)
	assert.Equal(t, "{this}.fmt({*args})", m.InlineCode)
	assert.Equal(t, "fmt({this}, {*args})", m.InlineCodeNonVirtual)
	assert.Equal(t, "fmt", m.InlineCodeGeneratedMethodName)
	assert.Empty(t, m.InlineCodeNonExpandedForm)
	assert.True(t, m.IntrinsicOperator)
	assert.False(t, m.ScriptSkip)
	assert.True(t, m.Imported, "members of imported types are imported")
	assert.Equal(t, OriginDirectExternal, m.Origin)
}

func TestBuild_PreserveCaseIsInherited(t *testing.T) {
	asm := symbols.NewAssembly("App", th.Attr(directives.PreserveCase))
	widget := th.Class(asm, "App", "Widget")
	render := widget.Method("Render")

	md, _ := Build(render, naming.New(naming.DefaultRules()), OriginDocument)
	assert.True(t, md.Base().PreserveCase)
	assert.Equal(t, "Render", md.Base().ComputedScriptName)
}

func TestBuild_AlternateSignatureFailureFallsBack(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	widget.Method("Draw", th.Params("int"))
	widget.Method("Draw", th.Params("string"))
	alt := widget.Method("Draw", th.WithAttrs(th.Attr(directives.AlternateSignature)))

	md, diags := Build(alt, naming.New(naming.DefaultRules()), OriginDocument)
	require.NotNil(t, md)
	assert.Equal(t, "draw", md.Base().ComputedScriptName)
	assert.True(t, md.(*Method).AlternateSignature)

	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeAmbiguousImplementingMethod, diags[0].Code)
	assert.Equal(t, diagnostics.SeverityError, diags[0].Severity)
}

func TestMethod_WithInlineCode(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	render := widget.Method("Render", th.WithAttrs(th.Attr(directives.InlineCode, "X")))

	md, _ := Build(render, naming.New(naming.DefaultRules()), OriginDocument)
	orig := md.(*Method)
	patched := orig.WithInlineCode("Y")

	assert.Equal(t, "Y", patched.InlineCode)
	assert.Equal(t, "X", orig.InlineCode, "the original record is untouched")
	assert.Equal(t, orig.ComputedScriptName, patched.ComputedScriptName)
	assert.NotSame(t, orig, patched)
}

func TestValidate(t *testing.T) {
	asm := symbols.NewAssembly("App")
	both := th.Enum(asm, "App", "Both").Attr(th.Attr(directives.NamedValues), th.Attr(directives.NumericValues))
	cls := th.Class(asm, "App", "Cls").Attr(th.Attr(directives.Mutable), th.Attr(directives.ScriptName, int64(4)))
	expand := cls.Method("Log", th.Params("string"), th.WithAttrs(th.Attr(directives.ExpandParams)))
	okExpand := cls.Method("Print", th.WithAttrs(th.Attr(directives.ExpandParams)))
	okExpand.Parameters = []symbols.Parameter{{Name: "args", TypeName: "object[]", IsParams: true}}
	field := cls.Field("F", th.WithAttrs(th.Attr(directives.InlineCode, "x")))

	assert.Len(t, Validate(both.Build()), 1)
	assert.Len(t, Validate(cls.Build()), 2)
	assert.Len(t, Validate(expand), 1)
	assert.Empty(t, Validate(okExpand))

	diags := Validate(field)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeInvalidDirective, diags[0].Code)
	assert.Contains(t, diags[0].Message, "applies only to methods")
}
