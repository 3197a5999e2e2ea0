package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scriptsym/internal/metadata"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// NameEntry is one row of the names report
type NameEntry struct {
	Symbol     string `json:"symbol"`
	Hash       string `json:"hash"`
	ScriptName string `json:"script_name"`
	Kind       string `json:"kind"`
	Origin     string `json:"origin"`
	Imported   bool   `json:"imported,omitempty"`
	InlineCode string `json:"inline_code,omitempty"`
}

// namesCommand prints the script name of every symbol in the table
func namesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	res, err := build(c.Context, cfg)
	if err != nil {
		return err
	}

	entries, err := collectNames(res, c.String("origin"), c.Args().Slice())
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeNamesJSON(c.App.Writer, entries)
	}
	return writeNamesTable(c.App.Writer, entries)
}

// collectNames gathers the table records, plus the indirect records of
// every library type the lazy scope accepts, filtered by origin and by
// glob patterns over display strings.
func collectNames(res *result, origin string, patterns []string) ([]NameEntry, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid symbol pattern %q", p)
		}
	}

	var entries []NameEntry
	seen := make(map[*symbols.Symbol]bool)
	add := func(md metadata.Metadata) {
		base := md.Base()
		sym := base.SourceSymbol
		if seen[sym] {
			return
		}
		seen[sym] = true
		if origin != "" && base.Origin.String() != origin {
			return
		}
		display := sym.DisplayString()
		if !matchesAny(patterns, display) {
			return
		}
		entry := NameEntry{
			Symbol:     display,
			Hash:       sym.Hash(),
			ScriptName: base.ComputedScriptName,
			Kind:       md.Variant().String(),
			Origin:     base.Origin.String(),
			Imported:   base.Imported,
		}
		if m, ok := md.(*metadata.Method); ok {
			entry.InlineCode = m.InlineCode
		}
		entries = append(entries, entry)
	}

	res.table.Range(func(md metadata.Metadata) bool {
		// TryGet applies overrides
		if final, ok := res.table.TryGet(md.Base().SourceSymbol); ok {
			md = final
		}
		add(md)
		return true
	})
	if origin == "" || origin == metadata.OriginIndirectExternal.String() {
		for _, lib := range res.analyzer.Libraries() {
			for _, t := range res.analyzer.LibraryTypes(lib) {
				_ = symbols.Walk(t, func(s *symbols.Symbol) error {
					if md, ok := res.table.TryGet(s); ok {
						add(md)
					}
					return nil
				})
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Origin != entries[j].Origin {
			return originRank(entries[i].Origin) < originRank(entries[j].Origin)
		}
		return entries[i].Symbol < entries[j].Symbol
	})
	return entries, nil
}

func originRank(o string) int {
	switch o {
	case metadata.OriginDocument.String():
		return 0
	case metadata.OriginDirectExternal.String():
		return 1
	}
	return 2
}

func matchesAny(patterns []string, display string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, display); ok {
			return true
		}
	}
	return false
}

func writeNamesJSON(w io.Writer, entries []NameEntry) error {
	if entries == nil {
		entries = []NameEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeNamesTable(w io.Writer, entries []NameEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tSCRIPT NAME\tKIND\tORIGIN")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Symbol, e.ScriptName, e.Kind, e.Origin)
	}
	return tw.Flush()
}
