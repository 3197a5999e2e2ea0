package metadata

import (
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/directives"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// stringDirectives take a string as their first argument
var stringDirectives = []string{
	directives.ScriptAlias,
	directives.ScriptName,
	directives.ScriptNamespace,
	directives.ScriptAssembly,
	directives.InlineCode,
}

// Validate reports malformed directive combinations on sym. It never
// rejects a symbol; findings are returned as diagnostics.
func Validate(sym *symbols.Symbol) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic
	invalid := func(format string, args ...any) {
		diags = append(diags, diagnostics.New(diagnostics.SeverityWarning, diagnostics.CodeInvalidDirective, sym, format, args...))
	}

	for _, name := range stringDirectives {
		attr, ok := directives.FindDirective(sym, name)
		if !ok || len(attr.Arguments) == 0 {
			continue
		}
		if _, isString := attr.Arguments[0].(string); !isString {
			invalid("%s expects a string argument, got %v", name, attr.Arguments[0])
		}
	}

	if sym.Kind != symbols.KindMethod {
		for _, name := range []string{directives.AlternateSignature, directives.InlineCode, directives.DontGenerate} {
			if directives.HasDirective(sym, name) {
				invalid("%s applies only to methods", name)
			}
		}
	}

	switch {
	case sym.TypeKind == symbols.TypeKindEnum:
		if flag(sym, directives.NamedValues) && flag(sym, directives.NumericValues) {
			invalid("%s and %s are mutually exclusive", directives.NamedValues, directives.NumericValues)
		}
	case sym.Kind == symbols.KindType && sym.TypeKind != symbols.TypeKindStruct:
		if directives.HasDirective(sym, directives.Mutable) {
			invalid("%s applies only to structs", directives.Mutable)
		}
	}

	if sym.Kind == symbols.KindMethod || sym.TypeKind == symbols.TypeKindDelegate {
		if flag(sym, directives.ExpandParams) && !hasParamsArray(sym) {
			invalid("%s requires a params array as the last parameter", directives.ExpandParams)
		}
	}

	if sym.Kind == symbols.KindMethod && flag(sym, directives.AlternateSignature) && directives.HasDirective(sym, directives.InlineCode) {
		invalid("%s methods cannot carry %s", directives.AlternateSignature, directives.InlineCode)
	}

	return diags
}

func hasParamsArray(sym *symbols.Symbol) bool {
	if len(sym.Parameters) == 0 {
		return false
	}
	return sym.Parameters[len(sym.Parameters)-1].IsParams
}
