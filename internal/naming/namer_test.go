package naming

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scriptsym/internal/altsig"
	"github.com/standardbeagle/scriptsym/internal/directives"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/symbols"
	th "github.com/standardbeagle/scriptsym/testhelpers"
)

func mustName(t *testing.T, n *Namer, sym *symbols.Symbol) string {
	t.Helper()
	name, err := n.ScriptName(sym)
	require.NoError(t, err)
	return name
}

func TestLowerCamel(t *testing.T) {
	tests := map[string]string{
		"Foo":      "foo",
		"foo":      "foo",
		"URLPath":  "urlPath",
		"ID":       "id",
		"IOStream": "ioStream",
		"X":        "x",
		"":         "",
		"_value":   "_value",
		"Foo$1":    "foo$1",
	}
	for in, want := range tests {
		assert.Equal(t, want, LowerCamel(in), in)
	}
}

func TestParseRules(t *testing.T) {
	r, err := ParseEnumRule("match-original-name")
	require.NoError(t, err)
	assert.Equal(t, EnumMatchOriginalName, r)

	f, err := ParseFieldRule("Dollar_Prefix_On_Duplicate_Only")
	require.NoError(t, err)
	assert.Equal(t, FieldDollarPrefixOnDuplicateOnly, f)
	assert.Equal(t, "dollar_prefix_on_duplicate_only", f.String())

	_, err = ParseFieldRule("snake")
	assert.Error(t, err)
}

func TestScriptName_OverloadSuffixing(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	foo0 := widget.Method("Foo")
	foo1 := widget.Method("Foo", th.Params("int"))
	other := widget.Method("Other")
	foo2 := widget.Method("Foo", th.Params("string"))
	staticFoo := widget.Method("Foo", th.Static(), th.Params("double"))
	th.NewUnit("Widget.cs", asm, widget)

	n := New(DefaultRules())
	assert.Equal(t, "foo", mustName(t, n, foo0))
	assert.Equal(t, "foo$1", mustName(t, n, foo1))
	assert.Equal(t, "foo$2", mustName(t, n, foo2))
	assert.Equal(t, "other", mustName(t, n, other))
	assert.Equal(t, "foo", mustName(t, n, staticFoo), "staticness splits collision sets")
}

func TestScriptName_Constructors(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	c0 := widget.Constructor()
	c1 := widget.Constructor(th.Params("int"))
	th.NewUnit("Widget.cs", asm, widget)

	n := New(DefaultRules())
	assert.Equal(t, "ctor", mustName(t, n, c0))
	assert.Equal(t, "ctor$1", mustName(t, n, c1))
}

func TestScriptName_ImportedTypesAreNotSuffixed(t *testing.T) {
	asm := symbols.NewAssembly("Lib")
	jq := th.Class(asm, "Lib", "JQuery").Attr(th.Attr(directives.Imported))
	a := jq.Method("Css", th.Params("string"))
	b := jq.Method("Css", th.Params("string", "string"))

	n := New(DefaultRules())
	assert.Equal(t, "css", mustName(t, n, a))
	assert.Equal(t, "css", mustName(t, n, b))
}

func TestScriptName_NestedInImportedType(t *testing.T) {
	asm := symbols.NewAssembly("App")
	native := th.Class(asm, "App", "Native").Attr(th.Attr(directives.Imported))
	inner := native.Nested(symbols.TypeKindClass, "Inner")
	a := inner.Method("Go")
	b := inner.Method("Go", th.Params("int"))

	n := New(DefaultRules())
	assert.Equal(t, "go", mustName(t, n, a))
	assert.Equal(t, "go", mustName(t, n, b), "imported outer types disable suffixing for nested types too")
}

func TestScriptName_AlternateSignature(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	widget.Method("Bar", th.Params("int"))
	impl := widget.Method("Bar", th.Params("object"))
	alt := widget.Method("Bar", th.WithAttrs(th.Attr(directives.AlternateSignature)))
	unit := th.NewUnit("Widget.cs", asm, widget)

	// Two non-alternate Bars: the sibling search is ambiguous
	n := New(DefaultRules())
	_, err := n.ScriptName(alt)
	var nerr *symerrors.NamingError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, symerrors.ReasonAmbiguousImplementingMethod, nerr.Reason)

	// Inline-coded overloads cannot implement
	widget.Build().Members[0].Attributes = []symbols.Attribute{th.Attr(directives.InlineCode, "bar({a})")}
	n = New(DefaultRules())
	got := mustName(t, n, alt)
	assert.Equal(t, mustName(t, n, impl), got)
	assert.Equal(t, "bar$1", got, "the implementing method keeps its own overload index")

	// Prebuilt groups are consulted first
	out, err := altsig.BuildGroups(context.Background(), []*symbols.Unit{unit})
	require.NoError(t, err)
	n = New(DefaultRules(), WithGroups(out.Value))
	assert.Equal(t, "bar$1", mustName(t, n, alt))
}

func TestScriptName_AlternateSignatureFollowsDirective(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	widget.Method("Bar", th.WithAttrs(th.Attr(directives.ScriptName, "draw")))
	alt := widget.Method("Bar", th.Params("int"), th.WithAttrs(th.Attr(directives.AlternateSignature)))

	assert.Equal(t, "draw", mustName(t, New(DefaultRules()), alt))
}

func TestScriptName_AlternateSignatureWithoutImplementation(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	alt := widget.Method("Bar", th.WithAttrs(th.Attr(directives.AlternateSignature)))

	_, err := New(DefaultRules()).ScriptName(alt)
	var nerr *symerrors.NamingError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, symerrors.ReasonNoImplementingMethod, nerr.Reason)
}

func TestDirectiveName_Precedence(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	both := widget.Property("Size", th.WithAttrs(
		th.Attr(directives.ScriptName, "named"),
		th.Attr(directives.ScriptAlias, "aliased"),
	))
	named := widget.Property("Color", th.WithAttrs(
		th.Attr(directives.PreserveCase),
		th.Attr(directives.ScriptName, "tint"),
	))
	preserved := widget.Event("Changed", th.WithAttrs(th.Attr(directives.PreserveCase)))
	plain := widget.Event("Closed")

	n := New(DefaultRules())
	assert.Equal(t, "aliased", mustName(t, n, both))
	assert.Equal(t, "tint", mustName(t, n, named))
	assert.Equal(t, "Changed", mustName(t, n, preserved))
	assert.Equal(t, "closed", mustName(t, n, plain))

	_, ok := n.DirectiveName(plain)
	assert.False(t, ok)
}

func TestDirectiveName_InheritedPreserveCase(t *testing.T) {
	asm := symbols.NewAssembly("App")
	typed := th.Class(asm, "App", "Typed").Attr(th.Attr(directives.PreserveCase))
	onType := typed.Method("DoWork")

	preserving := symbols.NewAssembly("Preserving", th.Attr(directives.PreserveCase))
	other := th.Class(preserving, "P", "Other")
	onAssembly := other.Property("Value")

	disabled := th.Class(asm, "App", "Disabled").Attr(th.Attr(directives.PreserveCase, false))
	off := disabled.Property("Value")

	n := New(DefaultRules())
	assert.Equal(t, "DoWork", mustName(t, n, onType))
	assert.Equal(t, "Value", mustName(t, n, onAssembly))
	assert.Equal(t, "value", mustName(t, n, off))
}

func TestScriptName_NamedValuesEnum(t *testing.T) {
	asm := symbols.NewAssembly("App")

	named := th.Enum(asm, "App", "Mode").Attr(th.Attr(directives.NamedValues))
	fast := named.Field("FastMode", th.Static(), th.WithAttrs(th.Attr(directives.ScriptName, "quick")))

	plain := th.Enum(asm, "App", "Color")
	red := plain.Field("DarkRed", th.Static(), th.WithAttrs(th.Attr(directives.ScriptName, "crimson")))
	blue := plain.Field("DarkBlue", th.Static())

	lower := New(Rules{Enum: EnumLowerCamelCase})
	assert.Equal(t, "fastMode", mustName(t, lower, fast), "named values ignore name directives")
	assert.Equal(t, "crimson", mustName(t, lower, red))
	assert.Equal(t, "darkBlue", mustName(t, lower, blue))

	original := New(Rules{Enum: EnumMatchOriginalName})
	assert.Equal(t, "FastMode", mustName(t, original, fast))
	assert.Equal(t, "DarkBlue", mustName(t, original, blue))
}

func TestScriptName_FieldRules(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	upper := widget.Field("Value")
	lower := widget.Field("value", th.Private())
	other := widget.Field("Other", th.Private())
	explicit := widget.Field("Explicit", th.Private(), th.WithAttrs(th.Attr(directives.ScriptName, "other")))

	dup := New(Rules{Field: FieldDollarPrefixOnDuplicateOnly})
	assert.Equal(t, "$value", mustName(t, dup, upper))
	assert.Equal(t, "$value", mustName(t, dup, lower))
	assert.Equal(t, "$other", mustName(t, dup, other), "collides with the directive name of a sibling")
	assert.Equal(t, "other", mustName(t, dup, explicit), "directive names are used verbatim")

	priv := New(Rules{Field: FieldDollarPrefixPrivate})
	assert.Equal(t, "value", mustName(t, priv, upper))
	assert.Equal(t, "$value", mustName(t, priv, lower))
	assert.Equal(t, "other", mustName(t, priv, explicit))

	camel := New(Rules{Field: FieldLowerCamelCase})
	assert.Equal(t, "value", mustName(t, camel, upper))
	assert.Equal(t, "value", mustName(t, camel, lower))
}

func TestScriptName_DuplicateFieldsAgainstMethods(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	field := widget.Field("Render")
	widget.Method("Render")
	free := widget.Field("Size")

	n := New(Rules{Field: FieldDollarPrefixOnDuplicateOnly})
	assert.Equal(t, "$render", mustName(t, n, field))
	assert.Equal(t, "size", mustName(t, n, free))
}

func TestScriptName_Types(t *testing.T) {
	stdlib := symbols.NewAssembly("mscorlib", th.Attr(directives.ScriptNamespace, "ss"))
	str := th.Class(stdlib, "System", "String").Build()
	list := th.Class(stdlib, "System.Collections.Generic", "List").Generic("T").Build()
	own := th.Class(stdlib, "System", "Lazy").Attr(th.Attr(directives.ScriptNamespace, "lazy")).Build()
	bare := th.Class(stdlib, "System", "Guid").Attr(th.Attr(directives.ScriptNamespace, "")).Build()

	app := symbols.NewAssembly("App")
	fake := th.Class(app, "System", "String").Build()
	renamed := th.Class(app, "App", "Widget").Attr(th.Attr(directives.ScriptName, "W")).Build()

	n := New(DefaultRules())
	assert.Equal(t, "String", mustName(t, n, str))
	assert.Equal(t, "ss.List", mustName(t, n, list))
	assert.Equal(t, "lazy.Lazy", mustName(t, n, own))
	assert.Equal(t, "Guid", mustName(t, n, bare))
	assert.Equal(t, "String", mustName(t, n, fake), "not native outside the standard library")
	assert.Equal(t, "W", mustName(t, n, renamed))
	assert.Equal(t, "Array", mustName(t, n, th.ArrayOf(renamed)))
	assert.Equal(t, "Object", mustName(t, n, th.Dynamic()))

	custom := New(DefaultRules(), WithStandardLibrary("corelib"))
	assert.Equal(t, "List", mustName(t, custom, list))
}

func TestScriptName_Assembly(t *testing.T) {
	n := New(DefaultRules())
	assert.Equal(t, "App", mustName(t, n, symbols.NewAssembly("App")))
	assert.Equal(t, "app-bundle", mustName(t, n, symbols.NewAssembly("App", th.Attr(directives.ScriptAssembly, "app-bundle"))))
}

func TestScriptName_ConcurrentMemo(t *testing.T) {
	asm := symbols.NewAssembly("App")
	widget := th.Class(asm, "App", "Widget")
	var fields []*symbols.Symbol
	for _, name := range []string{"Alpha", "alpha", "Beta", "Gamma", "gamma"} {
		fields = append(fields, widget.Field(name))
	}
	want := []string{"$alpha", "$alpha", "beta", "$gamma", "$gamma"}

	n := New(Rules{Field: FieldDollarPrefixOnDuplicateOnly})
	var wg sync.WaitGroup
	results := make([][]string, 8)
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for _, f := range fields {
				name, _ := n.ScriptName(f)
				results[w] = append(results[w], name)
			}
		}(w)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
