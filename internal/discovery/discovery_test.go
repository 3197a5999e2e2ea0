package discovery

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/directives"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/symbols"
	th "github.com/standardbeagle/scriptsym/testhelpers"
)

type fixture struct {
	host    *th.Host
	app     *symbols.Symbol
	lib     *symbols.Symbol
	stdlib  *symbols.Symbol
	unit    *symbols.Unit
	widget  *symbols.Symbol
	button  *symbols.Symbol
	click   *symbols.Symbol
	hidden  *symbols.Symbol
	unused  *symbols.Symbol
	str     *symbols.Symbol
	toUpper *symbols.Symbol
}

func newFixture() *fixture {
	f := &fixture{
		app:    symbols.NewAssembly("App"),
		lib:    symbols.NewAssembly("Controls"),
		stdlib: symbols.NewAssembly("mscorlib"),
	}

	button := th.Class(f.lib, "Controls", "Button")
	f.click = button.Method("Click")
	f.button = button.Build()
	unused := th.Class(f.lib, "Controls", "Slider")
	unused.Property("Value")
	f.unused = unused.Build()
	hidden := th.Class(f.lib, "Controls", "Internal").Attr(th.Attr(directives.NonScriptable))
	f.hidden = hidden.Build()

	str := th.Class(f.stdlib, "System", "String")
	f.toUpper = str.Method("ToUpper")
	f.str = str.Build()

	widget := th.Class(f.app, "App", "Widget")
	widget.Field("Size")
	f.widget = widget.Build()
	f.unit = th.NewUnit("Widget.cs", f.app, widget)

	f.host = th.NewHost().
		Library(f.lib, button, unused, hidden).
		Library(f.stdlib, str).
		WithStandardLibrary(f.stdlib)
	return f
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeDocumentOnly, ModeDirect, ModeAllLibraryTypes} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("everything")
	assert.Error(t, err)
}

func TestDiscoverDocument(t *testing.T) {
	f := newFixture()
	got := DiscoverDocument([]*symbols.Unit{f.unit})

	require.Len(t, got, 3)
	assert.Same(t, f.app, got[0])
	assert.Same(t, f.widget, got[1])
	assert.Equal(t, "Size", got[2].Name)
}

func TestDirectExternal(t *testing.T) {
	f := newFixture()
	nested := th.ArrayOf(th.ArrayOf(f.str))
	f.host.Reference(f.unit,
		f.widget,     // same assembly
		f.click,      // member brings its type
		nested,       // arrays unwrap
		th.Dynamic(), // placeholder
		f.click,      // duplicate
		&symbols.Symbol{Name: "Missing", Kind: symbols.KindType},
	)

	d := New(f.host, ModeDirect)
	out, err := d.DirectExternal(context.Background(), f.unit)
	require.NoError(t, err)

	assert.Equal(t, []*symbols.Symbol{f.lib, f.button, f.click, f.stdlib, f.str}, out.Value)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, diagnostics.CodeUnresolvedReference, out.Diagnostics[0].Code)
	assert.Contains(t, out.Diagnostics[0].Message, "Missing")
}

type suggestingHost struct {
	*th.Host
}

func (suggestingHost) Suggest(name string) string { return "Mission" }

func TestDirectExternal_Suggestion(t *testing.T) {
	f := newFixture()
	f.host.Reference(f.unit, &symbols.Symbol{Name: "Missing", Kind: symbols.KindType})

	out, err := New(suggestingHost{f.host}, ModeDirect).DirectExternal(context.Background(), f.unit)
	require.NoError(t, err)
	require.Len(t, out.Diagnostics, 1)
	assert.Contains(t, out.Diagnostics[0].Message, "did you mean Mission?")
}

func TestDirectExternal_DocumentOnly(t *testing.T) {
	f := newFixture()
	f.host.Reference(f.unit, f.click)

	out, err := New(f.host, ModeDocumentOnly).DirectExternal(context.Background(), f.unit)
	require.NoError(t, err)
	assert.Empty(t, out.Value)
}

func TestDirectExternal_Cancelled(t *testing.T) {
	f := newFixture()
	f.host.Reference(f.unit, f.click)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(f.host, ModeDirect).DiscoverDirectExternal(ctx, []*symbols.Unit{f.unit})
	require.Error(t, err)
	assert.True(t, symerrors.IsCancelled(err))
}

func TestIndirectScope(t *testing.T) {
	f := newFixture()
	d := New(f.host, ModeAllLibraryTypes)
	scope := d.IndirectExternal([]*symbols.Symbol{f.click})

	assert.Equal(t, []*symbols.Symbol{f.lib, f.stdlib}, scope.Libraries())
	assert.True(t, scope.Contains(f.unused), "unreferenced scriptable type of a referenced library")
	assert.True(t, scope.Contains(f.unused.Members[0]), "members of scriptable types")
	assert.True(t, scope.Contains(f.toUpper), "standard library is always eligible")
	assert.True(t, scope.Contains(f.lib))
	assert.False(t, scope.Contains(f.hidden), "non-scriptable types are excluded")
	assert.False(t, scope.Contains(f.widget), "document assembly is not a referenced library")

	assert.Equal(t, int64(2), d.Cache().Computations())
	assert.Equal(t, 1, f.host.LibraryTypesCalls(f.lib))

	assert.Nil(t, New(f.host, ModeDirect).IndirectExternal([]*symbols.Symbol{f.click}))
	var nilScope *Scope
	assert.False(t, nilScope.Contains(f.unused))
}

func TestDiscoverIndirectExternal(t *testing.T) {
	f := newFixture()
	d := New(f.host, ModeAllLibraryTypes)
	got, err := d.DiscoverIndirectExternal(context.Background(), []*symbols.Symbol{f.click})
	require.NoError(t, err)

	assert.Contains(t, got, f.unused)
	assert.Contains(t, got, f.toUpper)
	assert.NotContains(t, got, f.hidden)

	none, err := New(f.host, ModeDirect).DiscoverIndirectExternal(context.Background(), []*symbols.Symbol{f.click})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLibraryCache_SharedAndConcurrent(t *testing.T) {
	f := newFixture()
	cache := NewLibraryCache()
	a := New(f.host, ModeAllLibraryTypes, WithCache(cache))
	b := New(f.host, ModeAllLibraryTypes, WithCache(cache))
	require.Same(t, a.Cache(), b.Cache())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			types := cache.ScriptableTypes(f.host, f.lib)
			assert.Len(t, types, 2)
		}()
	}
	wg.Wait()

	computed := cache.Computations()
	assert.GreaterOrEqual(t, computed, int64(1))

	// once installed, further lookups never recompute
	cache.ScriptableTypes(f.host, f.lib)
	assert.Equal(t, computed, cache.Computations())
}
