package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/scriptsym/internal/symbols"
)

func TestDiagnostic_String(t *testing.T) {
	sym := &symbols.Symbol{
		Name:     "Widget",
		Kind:     symbols.KindType,
		Location: symbols.Location{Path: "Widget.cs", Line: 3, Column: 14},
	}
	d := New(SeverityError, CodeInvalidDirective, sym, "bad %s", "thing")

	assert.Equal(t, "Widget", d.Symbol)
	assert.Equal(t, "Widget.cs:3:14: error [metadata.invalid-directive] bad thing", d.String())

	bare := New(SeverityWarning, CodeUnresolvedReference, nil, "missing")
	assert.Equal(t, "warning [discovery.unresolved-reference] missing", bare.String())
}

func TestOutcome_HasErrors(t *testing.T) {
	ok := Of(1, New(SeverityWarning, CodeUnresolvedReference, nil, "w"))
	assert.False(t, ok.HasErrors())
	assert.Equal(t, 1, ok.Value)

	bad := Of("x", New(SeverityError, CodeNoImplementingMethod, nil, "e"))
	assert.True(t, bad.HasErrors())
}

func TestSortAndFilter(t *testing.T) {
	diags := []Diagnostic{
		{Code: CodeParse, Location: symbols.Location{Path: "b.cs", Line: 1}},
		{Code: CodeNoImplementingMethod, Location: symbols.Location{Path: "a.cs", Line: 9}},
		{Code: CodeAmbiguousImplementingMethod, Location: symbols.Location{Path: "a.cs", Line: 2}},
	}
	Sort(diags)

	assert.Equal(t, "a.cs", diags[0].Location.Path)
	assert.Equal(t, 2, diags[0].Location.Line)
	assert.Equal(t, "b.cs", diags[2].Location.Path)
	assert.Len(t, Filter(diags, CodeParse), 1)
}
