// Package csharp is a host analyzer for C# source built on tree-sitter. It
// parses the documents of a project and the source of its libraries into
// symbols, and resolves the references each document makes so the engine
// can discover external symbols.
package csharp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/suggest"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// DefaultProject is the assembly name used when Input.Project is empty
const DefaultProject = "App"

// Source is one C# file
type Source struct {
	Path    string
	Content []byte
}

// Library is a referenced assembly supplied as source
type Library struct {
	Name    string
	Sources []Source
}

// Input describes one compilation
type Input struct {
	// Project names the assembly the documents compile into.
	Project   string
	Documents []Source
	Libraries []Library
	// StandardLibrary names the library that acts as the core library.
	StandardLibrary string
	// Parallelism bounds concurrent parsing; zero means unbounded.
	Parallelism int
}

// Analyzer holds the symbols of a parsed compilation. It is immutable once
// Analyze returns and safe for concurrent use.
type Analyzer struct {
	project    *symbols.Symbol
	units      []*symbols.Unit
	assemblies []*symbols.Symbol
	libraries  map[*symbols.Symbol][]*symbols.Symbol
	stdlib     *symbols.Symbol
	references map[*symbols.Unit][]*symbols.Symbol

	// index maps a type's full name to its declarations
	index     map[string][]*symbols.Symbol
	names     []string
	instances map[instanceKey]*symbols.Symbol
	// namespaces holds every declared namespace and its prefixes
	namespaces map[string]bool
	// memberNames holds the name of every member of every type
	memberNames map[string]bool
}

var _ symbols.Analyzer = (*Analyzer)(nil)

type job struct {
	src         Source
	asm         *symbols.Symbol
	collectRefs bool
}

var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		if err := p.SetLanguage(sitter.NewLanguage(tree_sitter_csharp.Language())); err != nil {
			debug.LogCSharp("failed to set language: %v\n", err)
		}
		return p
	},
}

// Analyze parses every document and library source in parallel, builds
// their symbols and resolves the references of the documents. Syntax
// errors become diagnostics; only cancellation fails the call.
func Analyze(ctx context.Context, in Input) (diagnostics.Outcome[*Analyzer], error) {
	name := in.Project
	if name == "" {
		name = DefaultProject
	}
	a := &Analyzer{
		project:    symbols.NewAssembly(name),
		libraries:  make(map[*symbols.Symbol][]*symbols.Symbol),
		references: make(map[*symbols.Unit][]*symbols.Symbol),
		index:      make(map[string][]*symbols.Symbol),
		instances:  make(map[instanceKey]*symbols.Symbol),

		namespaces:  make(map[string]bool),
		memberNames: make(map[string]bool),
	}

	var jobs []job
	for _, src := range in.Documents {
		jobs = append(jobs, job{src: src, asm: a.project, collectRefs: true})
	}
	for _, lib := range in.Libraries {
		asm := symbols.NewAssembly(lib.Name)
		a.assemblies = append(a.assemblies, asm)
		a.libraries[asm] = nil
		if lib.Name == in.StandardLibrary {
			a.stdlib = asm
		}
		for _, src := range lib.Sources {
			jobs = append(jobs, job{src: src, asm: asm})
		}
	}

	files := make([]*file, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if in.Parallelism > 0 {
		g.SetLimit(in.Parallelism)
	}
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i] = parseFile(j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return diagnostics.Outcome[*Analyzer]{}, symerrors.AsCancelled("analyze sources", err)
	}

	merger := newPartialMerger(files)
	for _, f := range files {
		f.unit.Types = merger.mergeTopLevel(f.unit.Types)
	}

	var diags []diagnostics.Diagnostic
	for i, f := range files {
		j := jobs[i]
		j.asm.Attributes = append(j.asm.Attributes, f.assemblyAttrs...)
		diags = append(diags, f.diags...)
		if j.collectRefs {
			a.units = append(a.units, f.unit)
		} else {
			a.libraries[j.asm] = append(a.libraries[j.asm], f.unit.Types...)
		}
		a.indexTypes(f.unit.Types)
	}
	a.collectNames()

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return diagnostics.Outcome[*Analyzer]{}, symerrors.AsCancelled("analyze sources", err)
		}
		if jobs[i].collectRefs {
			a.references[f.unit] = newResolver(a, f).resolveAll()
		}
	}

	diagnostics.Sort(diags)
	debug.LogCSharp("analyzed %d documents, %d libraries, %d types\n", len(a.units), len(a.assemblies), len(a.index))
	return diagnostics.Of(a, diags...), nil
}

// parseFile parses and extracts one source. Parsers are pooled since they
// are not safe for concurrent use.
func parseFile(j job) *file {
	e := newExtractor(j.src, j.asm, j.collectRefs)

	parser := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(parser)

	tree := parser.Parse(j.src.Content, nil)
	if tree == nil {
		err := symerrors.NewParseError(j.src.Path, 0, 0, "", fmt.Errorf("parser produced no tree"))
		e.f.diags = append(e.f.diags, diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeParse,
			Message:  err.Error(),
			Location: symbols.Location{Path: j.src.Path},
		})
		return e.f
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			loc := e.loc(bad)
			token := e.text(bad)
			if len(token) > 32 {
				token = token[:32]
			}
			err := symerrors.NewParseError(j.src.Path, loc.Line, loc.Column, token, fmt.Errorf("syntax error"))
			e.f.diags = append(e.f.diags, diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarning,
				Code:     diagnostics.CodeParse,
				Message:  err.Error(),
				Location: loc,
			})
		}
	}

	e.container(root, "")
	debug.LogCSharp("%s: %d top-level types, %d reference sites\n", j.src.Path, len(e.f.unit.Types), len(e.f.refs))
	return e.f
}

func (a *Analyzer) indexTypes(types []*symbols.Symbol) {
	for _, t := range types {
		_ = symbols.Walk(t, func(s *symbols.Symbol) error {
			if s.IsType() {
				full := s.FullName()
				a.index[full] = append(a.index[full], s)
			}
			return nil
		})
	}
}

func (a *Analyzer) collectNames() {
	seen := make(map[string]bool)
	for _, decls := range a.index {
		for _, t := range decls {
			if !seen[t.Name] {
				seen[t.Name] = true
				a.names = append(a.names, t.Name)
			}
			for ns := t.Namespace; ns != ""; {
				a.namespaces[ns] = true
				i := strings.LastIndex(ns, ".")
				if i < 0 {
					break
				}
				ns = ns[:i]
			}
			for _, m := range t.Members {
				a.memberNames[m.Name] = true
			}
		}
	}
	sort.Strings(a.names)
}

// find returns the type with the given full name, preferring one with the
// given number of type parameters.
func (a *Analyzer) find(full string, arity int) *symbols.Symbol {
	decls := a.index[full]
	for _, t := range decls {
		if len(t.TypeArguments) == arity {
			return t
		}
	}
	if len(decls) > 0 {
		return decls[0]
	}
	return nil
}

// Lookup returns the type declared with the given full name, e.g.
// "System.Collections.Generic.List", or nil.
func (a *Analyzer) Lookup(full string) *symbols.Symbol {
	if decls := a.index[full]; len(decls) > 0 {
		return decls[0]
	}
	return nil
}

// Project returns the assembly of the documents
func (a *Analyzer) Project() *symbols.Symbol {
	return a.project
}

// Units returns the document units in input order
func (a *Analyzer) Units() []*symbols.Unit {
	return a.units
}

// Libraries returns the library assemblies in input order
func (a *Analyzer) Libraries() []*symbols.Symbol {
	return a.assemblies
}

// WalkReferences implements symbols.Analyzer. References were resolved by
// Analyze; the walk replays them in source order.
func (a *Analyzer) WalkReferences(ctx context.Context, unit *symbols.Unit, visit func(*symbols.Symbol) error) error {
	for _, ref := range a.references[unit] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := visit(ref); err != nil {
			return err
		}
	}
	return nil
}

// LibraryTypes implements symbols.Analyzer
func (a *Analyzer) LibraryTypes(asm *symbols.Symbol) []*symbols.Symbol {
	return a.libraries[asm]
}

// StandardLibrary implements symbols.Analyzer
func (a *Analyzer) StandardLibrary() *symbols.Symbol {
	return a.stdlib
}

// Suggest proposes a declared type name close to an unresolved one
func (a *Analyzer) Suggest(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return suggest.Closest(name, a.names, suggest.DefaultThreshold)
}

// ReadSources loads the given files
func ReadSources(paths []string) ([]Source, error) {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", p, err)
		}
		out = append(out, Source{Path: p, Content: content})
	}
	return out, nil
}
