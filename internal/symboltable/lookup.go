package symboltable

import (
	"github.com/standardbeagle/scriptsym/internal/debug"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/metadata"
	"github.com/standardbeagle/scriptsym/internal/suggest"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// TryGet returns the metadata of sym. The identity itself is probed first,
// then its original definition, then its unreduced extension form; each
// probe walks the document, direct and indirect tiers in order. A matching
// override is applied to the result.
func (t *Table) TryGet(sym *symbols.Symbol) (metadata.Metadata, bool) {
	if sym == nil {
		return nil, false
	}
	if md, ok := t.probe(sym); ok {
		return t.applyOverride(md, sym, sym), true
	}
	for _, alias := range sym.Aliases() {
		if md, ok := t.probe(alias); ok {
			return t.applyOverride(md, sym, alias), true
		}
	}
	return nil, false
}

func (t *Table) probe(sym *symbols.Symbol) (metadata.Metadata, bool) {
	if md, ok := t.document[sym]; ok {
		return md, true
	}
	if md, ok := t.direct[sym]; ok {
		return md, true
	}
	return t.lazy(sym)
}

// lazy consults the indirect tier, computing and installing the record on
// first access. Concurrent first accesses may both compute; the first
// installed record wins and no reader waits on another.
func (t *Table) lazy(sym *symbols.Symbol) (metadata.Metadata, bool) {
	if t.scope == nil {
		return nil, false
	}
	if cached, ok := t.indirect.Load(sym); ok {
		return cached.(metadata.Metadata), true
	}
	if !t.scope.Contains(sym) {
		return nil, false
	}
	md, diags := metadata.Build(sym, t.namer, metadata.OriginIndirectExternal)
	if md == nil {
		return nil, false
	}
	t.computations.Add(1)
	for _, d := range diags {
		debug.LogTable("indirect %s\n", d)
	}
	actual, _ := t.indirect.LoadOrStore(sym, md)
	return actual.(metadata.Metadata), true
}

func (t *Table) applyOverride(md metadata.Metadata, queried, matched *symbols.Symbol) metadata.Metadata {
	if len(t.overrides) == 0 {
		return md
	}
	ov, ok := t.overrides[queried.Hash()]
	if !ok && matched != queried {
		ov, ok = t.overrides[matched.Hash()]
	}
	if !ok || ov.InlineCode == nil {
		return md
	}
	if m, isMethod := md.(*metadata.Method); isMethod {
		return m.WithInlineCode(*ov.InlineCode)
	}
	return md
}

// Get returns the metadata of sym as variant T. A missing symbol or a
// record of another variant yields a *errors.NotFoundError.
func Get[T metadata.Metadata](t *Table, sym *symbols.Symbol) (T, error) {
	var zero T
	wanted := "any"
	if any(zero) != nil {
		wanted = zero.Variant().String()
	}

	md, ok := t.TryGet(sym)
	if !ok {
		return zero, t.notFound(sym, wanted)
	}
	v, ok := md.(T)
	if !ok {
		return zero, symerrors.NewNotFoundError(sym.DisplayString(), wanted).WithActual(md.Variant().String())
	}
	return v, nil
}

func (t *Table) notFound(sym *symbols.Symbol, wanted string) *symerrors.NotFoundError {
	display := sym.DisplayString()
	err := symerrors.NewNotFoundError(display, wanted)
	if s := suggest.Closest(display, t.displayStrings(), suggest.DefaultThreshold); s != "" {
		err.WithSuggestion(s)
	}
	return err
}

func (t *Table) displayStrings() []string {
	t.displayOnce.Do(func() {
		t.displays = make([]string, len(t.order))
		for i, md := range t.order {
			t.displays[i] = md.Base().SourceSymbol.DisplayString()
		}
	})
	return t.displays
}

// GetAssembly returns assembly metadata
func (t *Table) GetAssembly(sym *symbols.Symbol) (*metadata.Assembly, error) {
	return Get[*metadata.Assembly](t, sym)
}

// GetType returns class or interface metadata
func (t *Table) GetType(sym *symbols.Symbol) (*metadata.Type, error) {
	return Get[*metadata.Type](t, sym)
}

// GetStruct returns struct metadata
func (t *Table) GetStruct(sym *symbols.Symbol) (*metadata.Struct, error) {
	return Get[*metadata.Struct](t, sym)
}

// GetEnum returns enum metadata
func (t *Table) GetEnum(sym *symbols.Symbol) (*metadata.Enum, error) {
	return Get[*metadata.Enum](t, sym)
}

// GetDelegate returns delegate metadata
func (t *Table) GetDelegate(sym *symbols.Symbol) (*metadata.Delegate, error) {
	return Get[*metadata.Delegate](t, sym)
}

// GetField returns field metadata
func (t *Table) GetField(sym *symbols.Symbol) (*metadata.Field, error) {
	return Get[*metadata.Field](t, sym)
}

// GetProperty returns property metadata
func (t *Table) GetProperty(sym *symbols.Symbol) (*metadata.Property, error) {
	return Get[*metadata.Property](t, sym)
}

// GetMethod returns method metadata
func (t *Table) GetMethod(sym *symbols.Symbol) (*metadata.Method, error) {
	return Get[*metadata.Method](t, sym)
}

// GetEvent returns event metadata
func (t *Table) GetEvent(sym *symbols.Symbol) (*metadata.Event, error) {
	return Get[*metadata.Event](t, sym)
}
