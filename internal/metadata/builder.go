package metadata

import (
	"errors"

	"github.com/standardbeagle/scriptsym/internal/altsig"
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/directives"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/naming"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

type builder func(c Common, sym *symbols.Symbol) Metadata

// builders maps every variant to its constructor. TestBuildersAreTotal
// fails when a variant is added without one.
var builders = [variantCount]builder{
	VariantAssembly: buildAssembly,
	VariantType:     buildType,
	VariantStruct:   buildStruct,
	VariantEnum:     buildEnum,
	VariantDelegate: buildDelegate,
	VariantField:    buildField,
	VariantProperty: buildProperty,
	VariantMethod:   buildMethod,
	VariantEvent:    buildEvent,
}

// Build computes the metadata record of sym. Symbols without a variant
// yield nil. Naming failures and malformed directives become diagnostics;
// the record is still produced with a fallback name.
func Build(sym *symbols.Symbol, n *naming.Namer, origin Origin) (Metadata, []diagnostics.Diagnostic) {
	variant, ok := VariantOf(sym)
	if !ok {
		return nil, nil
	}

	var diags []diagnostics.Diagnostic
	name, err := n.ScriptName(sym)
	if err != nil {
		var nerr *symerrors.NamingError
		if errors.As(err, &nerr) {
			diags = append(diags, altsig.Diagnostic(sym, nerr))
		}
		name = n.DefaultName(sym)
	}
	diags = append(diags, Validate(sym)...)

	c := Common{
		SourceSymbol:       sym,
		ComputedScriptName: name,
		Imported:           directives.IsImported(sym),
		PreserveCase:       inheritedFlag(sym, directives.PreserveCase),
		PreserveName:       directives.GetFlagValue(sym, directives.PreserveName),
		Reflectable:        directives.GetFlagValue(sym, directives.Reflectable),
		Origin:             origin,
	}
	return builders[variant](c, sym), diags
}

func inheritedFlag(sym *symbols.Symbol, name string) bool {
	holder, _, ok := directives.Inherited(sym, name)
	return ok && directives.GetFlagValue(holder, name)
}

func str(sym *symbols.Symbol, name string, arg ...string) string {
	v, _ := directives.GetValue[string](sym, name, arg...)
	return v
}

func flag(sym *symbols.Symbol, name string) bool {
	return directives.GetFlagValue(sym, name)
}

func buildAssembly(c Common, sym *symbols.Symbol) Metadata {
	return &Assembly{
		Common:             c,
		ScriptAssemblyName: str(sym, directives.ScriptAssembly),
		ScriptNamespace:    str(sym, directives.ScriptNamespace),
	}
}

func buildType(c Common, sym *symbols.Symbol) Metadata {
	ns, ok := directives.GetValue[string](sym, directives.ScriptNamespace)
	if !ok {
		ns = str(sym.ContainingAssembly(), directives.ScriptNamespace)
	}
	return &Type{
		Common:                 c,
		IsInterface:            sym.TypeKind == symbols.TypeKindInterface,
		ScriptNamespace:        ns,
		IgnoreNamespace:        flag(sym, directives.IgnoreNamespace),
		IgnoreGenericArguments: flag(sym, directives.IgnoreGenericArguments),
		GlobalMethods:          flag(sym, directives.GlobalMethods),
		ObjectLiteral:          flag(sym, directives.ObjectLiteral),
		ScriptSkip:             flag(sym, directives.ScriptSkip),
	}
}

func buildStruct(c Common, sym *symbols.Symbol) Metadata {
	return &Struct{
		Common:        c,
		Mutable:       flag(sym, directives.Mutable),
		ObjectLiteral: flag(sym, directives.ObjectLiteral),
	}
}

func buildEnum(c Common, sym *symbols.Symbol) Metadata {
	return &Enum{
		Common:        c,
		NamedValues:   flag(sym, directives.NamedValues),
		NumericValues: flag(sym, directives.NumericValues),
		Flags:         flag(sym, directives.Flags),
	}
}

func buildDelegate(c Common, sym *symbols.Symbol) Metadata {
	return &Delegate{
		Common:                   c,
		BindThisToFirstParameter: flag(sym, directives.BindThisToFirstParameter),
		ExpandParams:             flag(sym, directives.ExpandParams),
	}
}

func buildField(c Common, sym *symbols.Symbol) Metadata {
	return &Field{
		Common:            c,
		IsEnumField:       sym.IsEnumField(),
		ConstantValue:     sym.ConstantValue,
		IntrinsicProperty: flag(sym, directives.IntrinsicProperty),
	}
}

func buildProperty(c Common, sym *symbols.Symbol) Metadata {
	return &Property{
		Common:            c,
		IntrinsicProperty: flag(sym, directives.IntrinsicProperty),
		ScriptAlias:       str(sym, directives.ScriptAlias),
		ScriptSkip:        flag(sym, directives.ScriptSkip),
	}
}

func buildMethod(c Common, sym *symbols.Symbol) Metadata {
	return &Method{
		Common:                        c,
		AlternateSignature:            flag(sym, directives.AlternateSignature),
		DontGenerate:                  flag(sym, directives.DontGenerate),
		ExpandParams:                  flag(sym, directives.ExpandParams),
		InlineCode:                    str(sym, directives.InlineCode),
		InlineCodeGeneratedMethodName: str(sym, directives.InlineCode, directives.ArgGeneratedMethodName),
		InlineCodeNonExpandedForm:     str(sym, directives.InlineCode, directives.ArgNonExpandedFormCode),
		InlineCodeNonVirtual:          str(sym, directives.InlineCode, directives.ArgNonVirtualCode),
		InstanceMethodOnFirstArgument: flag(sym, directives.InstanceMethodOnFirstArgument),
		IntrinsicOperator:             flag(sym, directives.IntrinsicOperator),
		ObjectLiteral:                 flag(sym, directives.ObjectLiteral),
		ScriptAlias:                   str(sym, directives.ScriptAlias),
		ScriptSkip:                    flag(sym, directives.ScriptSkip),
	}
}

func buildEvent(c Common, sym *symbols.Symbol) Metadata {
	return &Event{
		Common:     c,
		ScriptSkip: flag(sym, directives.ScriptSkip),
	}
}
