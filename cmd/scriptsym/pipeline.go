package main

import (
	"context"
	"fmt"
	"time"

	"github.com/standardbeagle/scriptsym/internal/config"
	"github.com/standardbeagle/scriptsym/internal/csharp"
	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/diagnostics"
	"github.com/standardbeagle/scriptsym/internal/discovery"
	"github.com/standardbeagle/scriptsym/internal/overrides"
	"github.com/standardbeagle/scriptsym/internal/symboltable"
)

// result is one run of the engine over a project
type result struct {
	analyzer    *csharp.Analyzer
	table       *symboltable.Table
	diagnostics []diagnostics.Diagnostic
}

// build reads the project's sources and libraries, analyzes them and
// creates the symbol table. Diagnostics of every stage are merged.
func build(ctx context.Context, cfg *config.Config) (*result, error) {
	if cfg.Performance.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Performance.TimeoutSec)*time.Second)
		defer cancel()
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	paths, err := cfg.SourceFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files found under %s", cfg.Project.Root)
	}
	docs, err := csharp.ReadSources(paths)
	if err != nil {
		return nil, err
	}

	in := csharp.Input{
		Project:         cfg.Project.Name,
		Documents:       docs,
		StandardLibrary: cfg.Discovery.StandardLibrary,
		Parallelism:     cfg.Performance.Parallelism,
	}
	for _, lib := range cfg.Libraries {
		files, err := cfg.LibraryFiles(lib)
		if err != nil {
			return nil, fmt.Errorf("failed to list library %s: %w", lib.Name, err)
		}
		sources, err := csharp.ReadSources(files)
		if err != nil {
			return nil, err
		}
		in.Libraries = append(in.Libraries, csharp.Library{Name: lib.Name, Sources: sources})
	}

	analyzed, err := csharp.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	a := analyzed.Value

	var table map[string]symboltable.Override
	if path := cfg.OverridesPath(); path != "" {
		if table, err = overrides.Load(path); err != nil {
			return nil, err
		}
	}

	d := discovery.New(a, mode, discovery.WithParallelism(cfg.Performance.Parallelism))
	created, err := symboltable.Create(ctx, a.Units(), table, d,
		symboltable.WithRules(rules),
		symboltable.WithParallelism(cfg.Performance.Parallelism),
		symboltable.WithStandardLibrary(cfg.Discovery.StandardLibrary),
	)
	if err != nil {
		return nil, err
	}

	diags := append(analyzed.Diagnostics, created.Diagnostics...)
	diagnostics.Sort(diags)
	debug.Printf("scriptsym: %d documents, %d records, %d diagnostics\n", len(docs), created.Value.Len(), len(diags))
	return &result{analyzer: a, table: created.Value, diagnostics: diags}, nil
}
